package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDraftDerivesTiers(t *testing.T) {
	ctx := context.Background()
	svc := NewResultService(newMemResultRepo())

	result, err := svc.PublishDraft(ctx, "2025-01-08", "1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", result.Digits4)
	assert.Equal(t, "234", result.Digits3)
	assert.Equal(t, "34", result.Digits2Top)
	assert.Equal(t, "12", result.Digits2Bottom)
	assert.False(t, result.IsPublished)
}

func TestPublishDraftRejectsMalformedDraw(t *testing.T) {
	ctx := context.Background()
	svc := NewResultService(newMemResultRepo())

	for _, digits := range []string{"", "123", "12345", "12a4"} {
		_, err := svc.PublishDraft(ctx, "2025-01-08", digits)
		assert.ErrorIs(t, err, ErrInvalidNumber, "digits %q", digits)
	}
}

func TestPublishDraftRejectsSecondResult(t *testing.T) {
	ctx := context.Background()
	svc := NewResultService(newMemResultRepo())

	_, err := svc.PublishDraft(ctx, "2025-01-08", "1234")
	require.NoError(t, err)

	_, err = svc.PublishDraft(ctx, "2025-01-08", "9999")
	assert.ErrorIs(t, err, ErrDuplicateResult)

	// The first record is untouched
	kept, err := svc.ResultForRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.Equal(t, "1234", kept.Digits4)
}

func TestAnnouncePublishesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewResultService(newMemResultRepo())

	_, err := svc.PublishDraft(ctx, "2025-01-08", "1234")
	require.NoError(t, err)

	result, err := svc.Announce(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.True(t, result.IsPublished)
	assert.False(t, result.AnnouncedAt.IsZero())

	_, err = svc.Announce(ctx, "2025-01-08")
	assert.ErrorIs(t, err, ErrAlreadyAnnounced)

	// Still published after the failed second announce
	kept, err := svc.ResultForRound(ctx, "2025-01-08")
	require.NoError(t, err)
	assert.True(t, kept.IsPublished)
}

func TestAnnounceWithoutResult(t *testing.T) {
	svc := NewResultService(newMemResultRepo())

	_, err := svc.Announce(context.Background(), "2025-01-08")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestLatestPublishedSkipsDrafts(t *testing.T) {
	ctx := context.Background()
	svc := NewResultService(newMemResultRepo())

	_, err := svc.LatestPublished(ctx)
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = svc.PublishDraft(ctx, "2025-01-06", "1111")
	require.NoError(t, err)
	_, err = svc.PublishDraft(ctx, "2025-01-08", "2222")
	require.NoError(t, err)

	// Drafts are invisible until announced
	_, err = svc.LatestPublished(ctx)
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = svc.Announce(ctx, "2025-01-06")
	require.NoError(t, err)
	latest, err := svc.LatestPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", latest.RoundID)

	_, err = svc.Announce(ctx, "2025-01-08")
	require.NoError(t, err)
	latest, err = svc.LatestPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", latest.RoundID)
}

func TestDeleteAllResults(t *testing.T) {
	ctx := context.Background()
	svc := NewResultService(newMemResultRepo())

	_, err := svc.PublishDraft(ctx, "2025-01-06", "1111")
	require.NoError(t, err)
	_, err = svc.PublishDraft(ctx, "2025-01-08", "2222")
	require.NoError(t, err)

	deleted, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = svc.ResultForRound(ctx, "2025-01-06")
	assert.ErrorIs(t, err, ErrResultNotFound)
}
