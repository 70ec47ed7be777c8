package services

import (
	"context"

	"github.com/khamphay/laolotto-bot/internal/models"
)

// WagerService defines the interface for wager-related operations
type WagerService interface {
	// Submit validates and persists one guess for the current round
	Submit(ctx context.Context, userID, displayLabel, number string, position models.Position) (*models.Wager, error)

	// WagerForUser returns the user's wager in a round, if any
	WagerForUser(ctx context.Context, userID, roundID string) (*models.Wager, error)

	// CountForRound counts all wagers in a round
	CountForRound(ctx context.Context, roundID string) (int64, error)

	// DistinctUsersForRound counts users that wagered in a round
	DistinctUsersForRound(ctx context.Context, roundID string) (int64, error)

	// FindWinners returns wagers in a round matching a number exactly
	FindWinners(ctx context.Context, roundID, number string, position models.Position) ([]*models.Wager, error)

	// WagersForRound returns every wager placed in a round
	WagersForRound(ctx context.Context, roundID string) ([]*models.Wager, error)

	// ClearRound deletes all wagers for a round
	ClearRound(ctx context.Context, roundID string) (int64, error)

	// ClearAll deletes every wager
	ClearAll(ctx context.Context) (int64, error)
}

// ResultService defines the interface for draw result operations
type ResultService interface {
	// PublishDraft records the official draw for a round without exposing it
	PublishDraft(ctx context.Context, roundID, digits4 string) (*models.Result, error)

	// Announce flips the round's result to published, exactly once
	Announce(ctx context.Context, roundID string) (*models.Result, error)

	// ResultForRound returns the result for a round regardless of publication
	ResultForRound(ctx context.Context, roundID string) (*models.Result, error)

	// LatestPublished returns the most recent announced result
	LatestPublished(ctx context.Context) (*models.Result, error)

	// DeleteAll removes every result
	DeleteAll(ctx context.Context) (int64, error)
}

// AuthService defines the interface for dashboard authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // Returns JWT token
}

// Announcer delivers outbound text to a chat. The Telegram bot implements it;
// the core never formats transport-specific payloads.
type Announcer interface {
	Send(chatID int64, text string) error
}
