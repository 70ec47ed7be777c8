package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ResultServiceImpl implements ResultService
var _ ResultService = (*ResultServiceImpl)(nil)

var drawPattern = regexp.MustCompile(`^\d{4}$`)

// ResultServiceImpl handles draw result business logic
type ResultServiceImpl struct {
	resultRepo repositories.ResultRepository
}

// NewResultService creates a new ResultServiceImpl
func NewResultService(resultRepo repositories.ResultRepository) *ResultServiceImpl {
	return &ResultServiceImpl{
		resultRepo: resultRepo,
	}
}

// PublishDraft records the official 4-digit draw for a round without exposing
// it to players. The 3-digit and 2-digit prizes are exact suffixes of the
// draw; the bottom-2 value is the draw's first two digits, since no external
// bottom feed exists. Re-entry for a round that already has a result is
// rejected with ErrDuplicateResult and leaves the first record unchanged.
func (s *ResultServiceImpl) PublishDraft(ctx context.Context, roundID, digits4 string) (*models.Result, error) {
	if !drawPattern.MatchString(digits4) {
		return nil, ErrInvalidNumber
	}

	existing, err := s.resultRepo.FindByRound(ctx, roundID)
	if err == nil && existing != nil {
		return nil, ErrDuplicateResult
	}
	if err != nil && err != mongo.ErrNoDocuments {
		slog.Error("Failed to check for existing result", "error", err, "roundId", roundID)
		return nil, fmt.Errorf("failed to check for existing result: %w", err)
	}

	result := &models.Result{
		RoundID:       roundID,
		Digits4:       digits4,
		Digits3:       digits4[1:],
		Digits2Top:    digits4[2:],
		Digits2Bottom: digits4[:2],
		IsPublished:   false,
	}
	err = s.resultRepo.Create(ctx, result)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateResult
		}
		slog.Error("Failed to persist result draft", "error", err, "roundId", roundID)
		return nil, fmt.Errorf("failed to persist result draft: %w", err)
	}

	slog.Info("Result draft recorded", "roundId", roundID)
	return result, nil
}

// Announce flips the round's result to published. The first call transitions
// isPublished false to true; a second call is a caller error surfaced as
// ErrAlreadyAnnounced, with the record left published.
func (s *ResultServiceImpl) Announce(ctx context.Context, roundID string) (*models.Result, error) {
	result, err := s.resultRepo.MarkPublished(ctx, roundID)
	if err == nil {
		slog.Info("Result announced", "roundId", roundID, "digits4", result.Digits4)
		return result, nil
	}
	if err != mongo.ErrNoDocuments {
		slog.Error("Failed to mark result published", "error", err, "roundId", roundID)
		return nil, fmt.Errorf("failed to mark result published: %w", err)
	}

	// Either no result was recorded or a previous announce already won;
	// distinguish the two for the caller.
	existing, findErr := s.resultRepo.FindByRound(ctx, roundID)
	if findErr != nil {
		if findErr == mongo.ErrNoDocuments {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to look up result: %w", findErr)
	}
	if existing.IsPublished {
		return nil, ErrAlreadyAnnounced
	}
	return nil, fmt.Errorf("failed to mark result published for round %s", roundID)
}

// ResultForRound returns the result for a round regardless of publication
func (s *ResultServiceImpl) ResultForRound(ctx context.Context, roundID string) (*models.Result, error) {
	result, err := s.resultRepo.FindByRound(ctx, roundID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to look up result: %w", err)
	}
	return result, nil
}

// LatestPublished returns the most recent announced result, for player-facing
// "check result" queries.
func (s *ResultServiceImpl) LatestPublished(ctx context.Context) (*models.Result, error) {
	result, err := s.resultRepo.FindLatestPublished(ctx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrResultNotFound
		}
		slog.Error("Failed to fetch latest published result", "error", err)
		return nil, fmt.Errorf("failed to fetch latest published result: %w", err)
	}
	return result, nil
}

// DeleteAll removes every result (admin reset)
func (s *ResultServiceImpl) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.resultRepo.DeleteAll(ctx)
	if err != nil {
		slog.Error("Failed to delete results", "error", err)
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	slog.Info("All results deleted", "deleted", deleted)
	return deleted, nil
}
