package models

// PrizeTier identifies a prize category within a round
type PrizeTier string

const (
	PrizeTier4       PrizeTier = "FOUR_DIGIT"
	PrizeTier3       PrizeTier = "THREE_DIGIT"
	PrizeTier2Top    PrizeTier = "TWO_DIGIT_TOP"
	PrizeTier2Bottom PrizeTier = "TWO_DIGIT_BOTTOM"
)

// PrizeBreakdown holds the winner set per tier for one announced round.
// Slices are never nil; a tier with no winners is an empty slice.
type PrizeBreakdown struct {
	Tier4       []*Wager `json:"tier4"`
	Tier3       []*Wager `json:"tier3"`
	Tier2Top    []*Wager `json:"tier2Top"`
	Tier2Bottom []*Wager `json:"tier2Bottom"`
}

// TotalWinners counts winners across all tiers
func (b *PrizeBreakdown) TotalWinners() int {
	return len(b.Tier4) + len(b.Tier3) + len(b.Tier2Top) + len(b.Tier2Bottom)
}
