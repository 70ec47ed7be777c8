package repositories

import (
	"context"

	"github.com/khamphay/laolotto-bot/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WagerRepository defines the interface for wager data operations.
// Create must fail with a duplicate-key error when a wager already exists for
// the same (userId, roundId); callers treat that the same as a pre-check hit.
type WagerRepository interface {
	Create(ctx context.Context, wager *models.Wager) error
	FindByUserAndRound(ctx context.Context, userID, roundID string) (*models.Wager, error)
	FindByRound(ctx context.Context, roundID string) ([]*models.Wager, error)
	FindByNumber(ctx context.Context, roundID, number string, position models.Position) ([]*models.Wager, error)
	CountByRound(ctx context.Context, roundID string) (int64, error)
	CountDistinctUsers(ctx context.Context, roundID string) (int64, error)
	DeleteByRound(ctx context.Context, roundID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// ResultRepository defines the interface for result data operations
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	FindByRound(ctx context.Context, roundID string) (*models.Result, error)
	FindLatestPublished(ctx context.Context) (*models.Result, error)
	MarkPublished(ctx context.Context, roundID string) (*models.Result, error)
	DeleteAll(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) (*models.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
