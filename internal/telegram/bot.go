package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/khamphay/laolotto-bot/internal/config"
	"github.com/khamphay/laolotto-bot/internal/services"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure Bot implements services.Announcer
var _ services.Announcer = (*Bot)(nil)

// Bot wires the Telegram transport to the betting core. One instance handles
// both inbound updates (webhook or polling) and outbound delivery.
type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	clock     *services.RoundClock
	wagers    services.WagerService
	results   services.ResultService
	lifecycle *services.LifecycleService
	formatter *Formatter
	admins    map[int64]bool
}

// New creates a new Bot. Outbound API calls share a bounded HTTP client so no
// delivery can hang indefinitely.
func New(
	cfg *config.Config,
	clock *services.RoundClock,
	wagers services.WagerService,
	results services.ResultService,
) (*Bot, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise telegram bot: %w", err)
	}

	admins := make(map[int64]bool, len(cfg.Telegram.AdminIDs))
	for _, id := range cfg.Telegram.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		api:       api,
		cfg:       cfg,
		clock:     clock,
		wagers:    wagers,
		results:   results,
		formatter: NewFormatter(clock),
		admins:    admins,
	}, nil
}

// WithLifecycle attaches the round lifecycle service. Set after construction
// because the lifecycle delivers through this bot.
func (b *Bot) WithLifecycle(lifecycle *services.LifecycleService) *Bot {
	b.lifecycle = lifecycle
	return b
}

// Formatter returns the announcement formatter bound to this bot's schedule
func (b *Bot) Formatter() *Formatter {
	return b.formatter
}

// Username returns the authenticated bot account name
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Send delivers plain text to a chat. Implements services.Announcer.
func (b *Bot) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SetWebhook registers the webhook with Telegram, mirroring the hosted setup
// where updates arrive on /webhook/<token>.
func (b *Bot) SetWebhook() error {
	url := fmt.Sprintf("%s/webhook/%s", b.cfg.Telegram.WebhookURL, b.cfg.Telegram.BotToken)
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	slog.Info("Webhook registered", "bot", b.api.Self.UserName)
	return nil
}

// StartPolling consumes updates via long polling until the context is
// cancelled. Used for local runs where no public webhook URL exists.
func (b *Bot) StartPolling(ctx context.Context) {
	_, _ = b.api.Request(tgbotapi.DeleteWebhookConfig{})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	slog.Info("Polling for updates", "bot", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.HandleUpdate(ctx, update)
		}
	}
}
