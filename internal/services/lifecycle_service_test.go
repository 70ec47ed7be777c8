package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khamphay/laolotto-bot/internal/models"
)

const testChatID = int64(-100500)

type lifecycleFixture struct {
	lifecycle *LifecycleService
	wagers    *WagerServiceImpl
	results   *ResultServiceImpl
	announcer *fakeAnnouncer
	wagerRepo *memWagerRepo
}

func newLifecycleFixture(t *testing.T, now string) *lifecycleFixture {
	t.Helper()
	clock := testClock(t)
	wagerRepo := newMemWagerRepo()
	wagers := NewWagerService(wagerRepo, clock).WithNow(fixedNow(t, now))
	results := NewResultService(newMemResultRepo())
	announcer := &fakeAnnouncer{}
	lifecycle := NewLifecycleService(
		clock, wagers, results, NewPrizeService([]int64{999}),
		announcer, fakeFormatter{}, testChatID,
	).WithNow(fixedNow(t, now))
	return &lifecycleFixture{
		lifecycle: lifecycle,
		wagers:    wagers,
		results:   results,
		announcer: announcer,
		wagerRepo: wagerRepo,
	}
}

func TestAnnounceRoundDeliversWinnersAndClears(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t, "2025-01-08 12:00:00")

	_, err := f.wagers.Submit(ctx, "u1", "winner", "56", models.PositionTop)
	require.NoError(t, err)
	_, err = f.wagers.Submit(ctx, "u2", "loser", "11", models.PositionTop)
	require.NoError(t, err)
	// A privileged account guessing the winning number stays out of the list
	_, err = f.wagers.Submit(ctx, "999", "operator", "1256", models.PositionNone)
	require.NoError(t, err)

	_, err = f.results.PublishDraft(ctx, "2025-01-08", "1256")
	require.NoError(t, err)

	// The announcement job fires at the flip instant
	f.lifecycle.WithNow(fixedNow(t, "2025-01-08 20:30:00"))
	require.NoError(t, f.lifecycle.AnnounceRound(ctx))

	require.Len(t, f.announcer.messages, 1)
	assert.Equal(t, testChatID, f.announcer.chatIDs[0])
	assert.Equal(t, "announce 2025-01-08 1256 winners=1", f.announcer.messages[0])

	// The round's wagers were cleared
	count, err := f.wagerRepo.CountByRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAnnounceRoundIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t, "2025-01-08 20:30:00")

	_, err := f.results.PublishDraft(ctx, "2025-01-08", "1256")
	require.NoError(t, err)

	require.NoError(t, f.lifecycle.AnnounceRound(ctx))
	require.NoError(t, f.lifecycle.AnnounceRound(ctx))
	assert.Len(t, f.announcer.messages, 1)
}

func TestAnnounceRoundSkipsMissingResult(t *testing.T) {
	f := newLifecycleFixture(t, "2025-01-08 20:30:00")

	// Admin never entered a draw; the job must not crash or deliver anything
	require.NoError(t, f.lifecycle.AnnounceRound(context.Background()))
	assert.Empty(t, f.announcer.messages)
}

func TestRemindRoundReportsEntries(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t, "2025-01-08 12:00:00")

	_, err := f.wagers.Submit(ctx, "u1", "a", "1234", models.PositionNone)
	require.NoError(t, err)

	f.lifecycle.WithNow(fixedNow(t, "2025-01-08 17:00:00"))
	require.NoError(t, f.lifecycle.RemindRound(ctx))

	require.Len(t, f.announcer.messages, 1)
	assert.Equal(t, "remind 2025-01-08 entries=1", f.announcer.messages[0])
}

func TestRemindRoundSkipsAfterCutoff(t *testing.T) {
	f := newLifecycleFixture(t, "2025-01-08 20:10:00")

	require.NoError(t, f.lifecycle.RemindRound(context.Background()))
	assert.Empty(t, f.announcer.messages)
}
