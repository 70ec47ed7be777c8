package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khamphay/laolotto-bot/internal/config"
	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/services"
)

func testFormatter(t *testing.T) *Formatter {
	t.Helper()
	clock, err := services.NewRoundClock(config.DrawConfig{
		Timezone:     "UTC",
		Days:         []string{"monday", "wednesday", "friday"},
		AnnounceTime: "20:30",
		CutoffTime:   "20:00",
		ReminderTime: "17:00",
	})
	require.NoError(t, err)
	return NewFormatter(clock)
}

func publishedResult() *models.Result {
	return &models.Result{
		RoundID:       "2025-01-08",
		Digits4:       "1256",
		Digits3:       "256",
		Digits2Top:    "56",
		Digits2Bottom: "12",
		IsPublished:   true,
	}
}

func TestFormatResultShowsAllTiers(t *testing.T) {
	text := testFormatter(t).FormatResult(publishedResult())

	assert.Contains(t, text, "2025-01-08")
	assert.Contains(t, text, "1256")
	assert.Contains(t, text, "256")
	assert.Contains(t, text, "56")
	assert.Contains(t, text, "12")
}

func TestFormatAnnouncementListsWinners(t *testing.T) {
	breakdown := &models.PrizeBreakdown{
		Tier4: []*models.Wager{},
		Tier3: []*models.Wager{},
		Tier2Top: []*models.Wager{
			{UserID: "111", DisplayLabel: "@somchai", Number: "56", Position: models.PositionTop},
			{UserID: "222", Number: "56", Position: models.PositionTop},
		},
		Tier2Bottom: []*models.Wager{},
	}

	text := testFormatter(t).FormatAnnouncement(publishedResult(), breakdown)
	assert.Contains(t, text, "@somchai")
	// A winner without a handle falls back to the user ID
	assert.Contains(t, text, "222")
}

func TestFormatAnnouncementWithoutWinners(t *testing.T) {
	breakdown := &models.PrizeBreakdown{
		Tier4:       []*models.Wager{},
		Tier3:       []*models.Wager{},
		Tier2Top:    []*models.Wager{},
		Tier2Bottom: []*models.Wager{},
	}

	text := testFormatter(t).FormatAnnouncement(publishedResult(), breakdown)
	assert.Contains(t, text, "ບໍ່ມີຜູ້ຖືກລາງວັນ")
}

func TestFormatReminderShowsCutoffInDrawZone(t *testing.T) {
	cutoff := time.Date(2025, 1, 8, 20, 0, 0, 0, time.UTC)

	text := testFormatter(t).FormatReminder("2025-01-08", 7, cutoff)
	assert.Contains(t, text, "2025-01-08")
	assert.Contains(t, text, "20:00")
	assert.Contains(t, text, "7")
}
