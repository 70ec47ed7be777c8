package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/khamphay/laolotto-bot/internal/config"
)

// GenerateJWT generates a signed JWT for an admin dashboard session
func GenerateJWT(userID, email, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT and returns its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// MaskUserID masks a user identifier for logging (shows first 2 and last 2 characters)
func MaskUserID(userID string) string {
	if len(userID) > 4 {
		return userID[:2] + "****" + userID[len(userID)-2:]
	}
	return "****"
}
