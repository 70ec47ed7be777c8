package services

import (
	"errors"
	"fmt"

	"github.com/khamphay/laolotto-bot/internal/models"
)

// Typed outcomes for the betting core. None of these should crash the hosting
// process; callers map them to user-facing replies.
var (
	// ErrInvalidNumber is returned when a guess or draw number fails the
	// length/charset pattern. Nothing is persisted.
	ErrInvalidNumber = errors.New("number must be 2 to 4 ASCII digits")

	// ErrPositionRequired is returned for a two-digit guess submitted without
	// choosing the top or bottom tier.
	ErrPositionRequired = errors.New("two-digit guess requires a top or bottom position")

	// ErrBettingClosed is returned for submissions between the round cutoff
	// and the announcement.
	ErrBettingClosed = errors.New("betting is closed for the current round")

	// ErrDuplicateResult is returned when a result is already recorded for the
	// round. The admin must reset before retrying.
	ErrDuplicateResult = errors.New("a result already exists for this round")

	// ErrAlreadyAnnounced is returned when Announce is called on a result that
	// was already published. The state stays published.
	ErrAlreadyAnnounced = errors.New("result has already been announced")

	// ErrResultNotFound is returned for queries against a round with no result
	ErrResultNotFound = errors.New("no result recorded for this round")
)

// AlreadyWageredError rejects a duplicate submission and carries the existing
// wager so the caller can tell the user what they already guessed. This is a
// normal outcome, not an exception path.
type AlreadyWageredError struct {
	Existing *models.Wager
}

func (e *AlreadyWageredError) Error() string {
	return fmt.Sprintf("user %s already wagered %s in round %s", e.Existing.UserID, e.Existing.Number, e.Existing.RoundID)
}

// IsAlreadyWagered reports whether err is an AlreadyWageredError and returns
// the existing wager when it is.
func IsAlreadyWagered(err error) (*models.Wager, bool) {
	var dup *AlreadyWageredError
	if errors.As(err, &dup) {
		return dup.Existing, true
	}
	return nil, false
}
