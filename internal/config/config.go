package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Telegram TelegramConfig
	Draw     DrawConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration for the admin dashboard
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// TelegramConfig holds bot transport configuration. An empty WebhookURL makes
// the bot fall back to long polling.
type TelegramConfig struct {
	BotToken       string
	WebhookURL     string
	AnnounceChatID int64
	AdminIDs       []int64
}

// DrawConfig holds the weekly draw schedule in the draw's local time zone
type DrawConfig struct {
	Timezone     string
	Days         []string
	AnnounceTime string
	CutoffTime   string
	ReminderTime string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "10000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "laolotto")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Telegram.BotToken", "")
	viper.SetDefault("Telegram.WebhookURL", "")
	viper.SetDefault("Telegram.AnnounceChatID", 0)
	viper.SetDefault("Draw.Timezone", "Asia/Vientiane")
	viper.SetDefault("Draw.Days", []string{"monday", "wednesday", "friday"})
	viper.SetDefault("Draw.AnnounceTime", "20:30")
	viper.SetDefault("Draw.CutoffTime", "20:00")
	viper.SetDefault("Draw.ReminderTime", "17:00")
}
