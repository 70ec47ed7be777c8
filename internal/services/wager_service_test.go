package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khamphay/laolotto-bot/internal/models"
)

func fixedNow(t *testing.T, value string) func() time.Time {
	t.Helper()
	ts := at(t, value)
	return func() time.Time { return ts }
}

func newTestWagerService(t *testing.T, now string) (*WagerServiceImpl, *memWagerRepo) {
	t.Helper()
	repo := newMemWagerRepo()
	svc := NewWagerService(repo, testClock(t)).WithNow(fixedNow(t, now))
	return svc, repo
}

func TestSubmitAcceptsValidGuesses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		number   string
		position models.Position
		want     models.Position
	}{
		{"four digits", "1234", models.PositionNone, models.PositionNone},
		{"three digits", "234", models.PositionNone, models.PositionNone},
		{"two digits top", "34", models.PositionTop, models.PositionTop},
		{"two digits bottom", "12", models.PositionBottom, models.PositionBottom},
		{"position ignored for four digits", "1234", models.PositionTop, models.PositionNone},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestWagerService(t, "2025-01-08 12:00:00")
			userID := string(rune('a' + i))

			wager, err := svc.Submit(ctx, userID, "player", tt.number, tt.position)
			require.NoError(t, err)
			assert.Equal(t, tt.number, wager.Number)
			assert.Equal(t, tt.want, wager.Position)
			assert.Equal(t, "2025-01-08", wager.RoundID)
		})
	}
}

func TestSubmitRejectsMalformedNumbers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestWagerService(t, "2025-01-08 12:00:00")

	for _, number := range []string{"", "1", "12345", "12a4", "๑๒๓๔", " 1234"} {
		_, err := svc.Submit(ctx, "u1", "player", number, models.PositionNone)
		assert.ErrorIs(t, err, ErrInvalidNumber, "number %q", number)
	}

	count, err := repo.CountByRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubmitRequiresPositionForTwoDigits(t *testing.T) {
	svc, _ := newTestWagerService(t, "2025-01-08 12:00:00")

	_, err := svc.Submit(context.Background(), "u1", "player", "56", models.PositionNone)
	assert.ErrorIs(t, err, ErrPositionRequired)
}

func TestSubmitRejectsAfterCutoff(t *testing.T) {
	svc, _ := newTestWagerService(t, "2025-01-08 20:05:00")

	_, err := svc.Submit(context.Background(), "u1", "player", "1234", models.PositionNone)
	assert.ErrorIs(t, err, ErrBettingClosed)
}

func TestSubmitRejectsSecondGuessKeepingFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestWagerService(t, "2025-01-08 12:00:00")

	first, err := svc.Submit(ctx, "u1", "player", "1234", models.PositionNone)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "u1", "player", "9999", models.PositionNone)
	existing, ok := IsAlreadyWagered(err)
	require.True(t, ok)
	assert.Equal(t, first.Number, existing.Number)

	// The stored guess is still the first one
	kept, err := svc.WagerForUser(ctx, "u1", "2025-01-08")
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "1234", kept.Number)
}

func TestSubmitSettlesDuplicateKeyRace(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestWagerService(t, "2025-01-08 12:00:00")

	// Simulate a concurrent submission winning between the existence check
	// and the insert: the pre-check misses, the insert hits the unique index.
	_, err := svc.Submit(ctx, "u1", "player", "1234", models.PositionNone)
	require.NoError(t, err)
	repo.missFinds = 1
	_, err = svc.Submit(ctx, "u1", "player", "9999", models.PositionNone)
	existing, ok := IsAlreadyWagered(err)
	require.True(t, ok)
	assert.Equal(t, "1234", existing.Number)
}

func TestSubmitAllowsNewGuessNextRound(t *testing.T) {
	ctx := context.Background()
	repo := newMemWagerRepo()
	clock := testClock(t)

	svc := NewWagerService(repo, clock).WithNow(fixedNow(t, "2025-01-08 12:00:00"))
	_, err := svc.Submit(ctx, "u1", "player", "1234", models.PositionNone)
	require.NoError(t, err)

	// Same user, after the flip to Friday's round
	svc = NewWagerService(repo, clock).WithNow(fixedNow(t, "2025-01-09 12:00:00"))
	wager, err := svc.Submit(ctx, "u1", "player", "5678", models.PositionNone)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", wager.RoundID)
}

func TestRoundCountsAndClearing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestWagerService(t, "2025-01-08 12:00:00")

	_, err := svc.Submit(ctx, "u1", "a", "1234", models.PositionNone)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "u2", "b", "56", models.PositionTop)
	require.NoError(t, err)

	count, err := svc.CountForRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	users, err := svc.DistinctUsersForRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)

	deleted, err := svc.ClearRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err = svc.CountForRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFindWinnersMatchesNumberAndPosition(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestWagerService(t, "2025-01-08 12:00:00")

	_, err := svc.Submit(ctx, "u1", "a", "56", models.PositionTop)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "u2", "b", "56", models.PositionBottom)
	require.NoError(t, err)

	winners, err := svc.FindWinners(ctx, "2025-01-08", "56", models.PositionTop)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "u1", winners[0].UserID)

	// PositionNone places no position filter
	winners, err = svc.FindWinners(ctx, "2025-01-08", "56", models.PositionNone)
	require.NoError(t, err)
	assert.Len(t, winners, 2)

	winners, err = svc.FindWinners(ctx, "2025-01-08", "99", models.PositionTop)
	require.NoError(t, err)
	assert.Empty(t, winners)
}
