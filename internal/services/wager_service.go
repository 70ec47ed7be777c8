package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/repositories"
	"github.com/khamphay/laolotto-bot/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WagerServiceImpl implements WagerService
var _ WagerService = (*WagerServiceImpl)(nil)

var guessPattern = regexp.MustCompile(`^\d{2,4}$`)

// WagerServiceImpl handles wager-related business logic
type WagerServiceImpl struct {
	wagerRepo repositories.WagerRepository
	clock     *RoundClock
	now       func() time.Time
}

// NewWagerService creates a new WagerServiceImpl
func NewWagerService(wagerRepo repositories.WagerRepository, clock *RoundClock) *WagerServiceImpl {
	return &WagerServiceImpl{
		wagerRepo: wagerRepo,
		clock:     clock,
		now:       time.Now,
	}
}

// WithNow overrides the wall clock, for tests
func (s *WagerServiceImpl) WithNow(now func() time.Time) *WagerServiceImpl {
	s.now = now
	return s
}

// Submit validates and persists one guess for the currently open round.
// Duplicate submissions for the same (user, round) are rejected with an
// AlreadyWageredError carrying the existing guess. The race between the
// existence check and the insert is settled by the unique index on
// (userId, roundId): a duplicate-key error takes the same rejection path as a
// pre-check hit.
func (s *WagerServiceImpl) Submit(ctx context.Context, userID, displayLabel, number string, position models.Position) (*models.Wager, error) {
	if !guessPattern.MatchString(number) {
		return nil, ErrInvalidNumber
	}
	if len(number) == 2 {
		if position != models.PositionTop && position != models.PositionBottom {
			return nil, ErrPositionRequired
		}
	} else {
		// Position only carries meaning for two-digit guesses
		position = models.PositionNone
	}

	now := s.now()
	if !s.clock.IsOpen(now) {
		return nil, ErrBettingClosed
	}
	roundID := s.clock.CurrentRoundID(now)

	existing, err := s.wagerRepo.FindByUserAndRound(ctx, userID, roundID)
	if err == nil && existing != nil {
		return nil, &AlreadyWageredError{Existing: existing}
	}
	if err != nil && err != mongo.ErrNoDocuments {
		slog.Error("Failed to check for existing wager", "error", err, "userId", utils.MaskUserID(userID), "roundId", roundID)
		return nil, fmt.Errorf("failed to check for existing wager: %w", err)
	}

	wager := &models.Wager{
		UserID:       userID,
		DisplayLabel: displayLabel,
		Number:       number,
		Position:     position,
		RoundID:      roundID,
		CreatedAt:    now,
	}
	err = s.wagerRepo.Create(ctx, wager)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race to a concurrent submission from the same user
			existing, findErr := s.wagerRepo.FindByUserAndRound(ctx, userID, roundID)
			if findErr == nil && existing != nil {
				return nil, &AlreadyWageredError{Existing: existing}
			}
		}
		slog.Error("Failed to persist wager", "error", err, "userId", utils.MaskUserID(userID), "roundId", roundID)
		return nil, fmt.Errorf("failed to persist wager: %w", err)
	}

	slog.Info("Wager accepted", "userId", utils.MaskUserID(userID), "roundId", roundID, "number", number, "position", position)
	return wager, nil
}

// WagerForUser returns the user's wager in a round, or nil when the user has
// not wagered.
func (s *WagerServiceImpl) WagerForUser(ctx context.Context, userID, roundID string) (*models.Wager, error) {
	wager, err := s.wagerRepo.FindByUserAndRound(ctx, userID, roundID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up wager: %w", err)
	}
	return wager, nil
}

// CountForRound counts all wagers in a round
func (s *WagerServiceImpl) CountForRound(ctx context.Context, roundID string) (int64, error) {
	count, err := s.wagerRepo.CountByRound(ctx, roundID)
	if err != nil {
		slog.Error("Failed to count wagers", "error", err, "roundId", roundID)
		return 0, fmt.Errorf("failed to count wagers: %w", err)
	}
	return count, nil
}

// DistinctUsersForRound counts users that placed a wager in a round
func (s *WagerServiceImpl) DistinctUsersForRound(ctx context.Context, roundID string) (int64, error) {
	count, err := s.wagerRepo.CountDistinctUsers(ctx, roundID)
	if err != nil {
		slog.Error("Failed to count distinct users", "error", err, "roundId", roundID)
		return 0, fmt.Errorf("failed to count distinct users: %w", err)
	}
	return count, nil
}

// FindWinners returns wagers in a round matching a number exactly. Returns an
// empty slice, never nil, when nothing matches.
func (s *WagerServiceImpl) FindWinners(ctx context.Context, roundID, number string, position models.Position) ([]*models.Wager, error) {
	winners, err := s.wagerRepo.FindByNumber(ctx, roundID, number, position)
	if err != nil {
		slog.Error("Failed to find winners", "error", err, "roundId", roundID, "number", number)
		return nil, fmt.Errorf("failed to find winners: %w", err)
	}
	return winners, nil
}

// WagersForRound returns every wager placed in a round
func (s *WagerServiceImpl) WagersForRound(ctx context.Context, roundID string) ([]*models.Wager, error) {
	wagers, err := s.wagerRepo.FindByRound(ctx, roundID)
	if err != nil {
		slog.Error("Failed to fetch round wagers", "error", err, "roundId", roundID)
		return nil, fmt.Errorf("failed to fetch round wagers: %w", err)
	}
	return wagers, nil
}

// ClearRound deletes all wagers for a round
func (s *WagerServiceImpl) ClearRound(ctx context.Context, roundID string) (int64, error) {
	deleted, err := s.wagerRepo.DeleteByRound(ctx, roundID)
	if err != nil {
		slog.Error("Failed to clear round wagers", "error", err, "roundId", roundID)
		return 0, fmt.Errorf("failed to clear round wagers: %w", err)
	}
	slog.Info("Round wagers cleared", "roundId", roundID, "deleted", deleted)
	return deleted, nil
}

// ClearAll deletes every wager
func (s *WagerServiceImpl) ClearAll(ctx context.Context) (int64, error) {
	deleted, err := s.wagerRepo.DeleteAll(ctx)
	if err != nil {
		slog.Error("Failed to clear all wagers", "error", err)
		return 0, fmt.Errorf("failed to clear all wagers: %w", err)
	}
	slog.Info("All wagers cleared", "deleted", deleted)
	return deleted, nil
}
