package services

import (
	"strconv"

	"github.com/khamphay/laolotto-bot/internal/models"
)

// PrizeService computes winner sets per prize tier for a published result.
// Matching is pure and order-independent: a wager wins a tier iff its number
// equals the tier's value exactly (and, for two-digit tiers, its position
// matches). Wagers placed by privileged operator accounts never win.
type PrizeService struct {
	privileged map[string]bool
}

// NewPrizeService creates a new PrizeService. adminIDs is the configured
// privileged Telegram ID set excluded from winner tallies.
func NewPrizeService(adminIDs []int64) *PrizeService {
	privileged := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		privileged[strconv.FormatInt(id, 10)] = true
	}
	return &PrizeService{privileged: privileged}
}

// Match computes the winner set per tier from a result and the round's wagers
func (s *PrizeService) Match(result *models.Result, wagers []*models.Wager) *models.PrizeBreakdown {
	breakdown := &models.PrizeBreakdown{
		Tier4:       []*models.Wager{},
		Tier3:       []*models.Wager{},
		Tier2Top:    []*models.Wager{},
		Tier2Bottom: []*models.Wager{},
	}
	if result == nil {
		return breakdown
	}

	for _, wager := range wagers {
		if wager == nil || s.privileged[wager.UserID] {
			continue
		}
		switch {
		case wager.Number == result.Digits4:
			breakdown.Tier4 = append(breakdown.Tier4, wager)
		case wager.Number == result.Digits3:
			breakdown.Tier3 = append(breakdown.Tier3, wager)
		case wager.Number == result.Digits2Top && wager.Position == models.PositionTop:
			breakdown.Tier2Top = append(breakdown.Tier2Top, wager)
		case wager.Number == result.Digits2Bottom && wager.Position == models.PositionBottom:
			breakdown.Tier2Bottom = append(breakdown.Tier2Bottom, wager)
		}
	}
	return breakdown
}

// IsPrivileged reports whether a user ID belongs to the operator allow-list
func (s *PrizeService) IsPrivileged(userID string) bool {
	return s.privileged[userID]
}
