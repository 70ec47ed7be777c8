package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/services"
)

// Compile-time check to ensure Formatter implements services.AnnouncementFormatter
var _ services.AnnouncementFormatter = (*Formatter)(nil)

// Formatter renders results and winner breakdowns into outbound Lao text.
// All message formatting lives here; the core only produces structured tiers.
type Formatter struct {
	clock *services.RoundClock
}

// NewFormatter creates a Formatter bound to the draw schedule
func NewFormatter(clock *services.RoundClock) *Formatter {
	return &Formatter{clock: clock}
}

// FormatResult renders a published result for "check result" queries
func (f *Formatter) FormatResult(result *models.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 ຜົນຫວຍຮອບ %s\n", result.RoundID)
	fmt.Fprintf(&sb, "4 ໂຕ: %s\n", result.Digits4)
	fmt.Fprintf(&sb, "3 ໂຕ: %s\n", result.Digits3)
	fmt.Fprintf(&sb, "2 ໂຕເທິງ: %s\n", result.Digits2Top)
	fmt.Fprintf(&sb, "2 ໂຕລຸ່ມ: %s", result.Digits2Bottom)
	return sb.String()
}

// FormatAnnouncement renders the scheduled announcement with the winner list
func (f *Formatter) FormatAnnouncement(result *models.Result, breakdown *models.PrizeBreakdown) string {
	var sb strings.Builder
	sb.WriteString("🎉 ປະກາດຜົນລາງວັນ!\n")
	sb.WriteString(f.FormatResult(result))
	sb.WriteString("\n\n")

	if breakdown.TotalWinners() == 0 {
		sb.WriteString("ຮອບນີ້ບໍ່ມີຜູ້ຖືກລາງວັນ 😢")
		return sb.String()
	}

	writeTier(&sb, "🥇 ຖືກ 4 ໂຕ", breakdown.Tier4)
	writeTier(&sb, "🥈 ຖືກ 3 ໂຕ", breakdown.Tier3)
	writeTier(&sb, "🥉 ຖືກ 2 ໂຕເທິງ", breakdown.Tier2Top)
	writeTier(&sb, "🥉 ຖືກ 2 ໂຕລຸ່ມ", breakdown.Tier2Bottom)
	return strings.TrimRight(sb.String(), "\n")
}

// FormatReminder renders the pre-cutoff reminder
func (f *Formatter) FormatReminder(roundID string, entries int64, cutoff time.Time) string {
	return fmt.Sprintf(
		"⏰ ຮອບ %s ຈະປິດຮັບໂພຍເວລາ %s\nມີຜູ້ທາຍແລ້ວ %d ໂພຍ ຟ້າວທາຍເລີຍ! 🎲",
		roundID, cutoff.In(f.clock.Location()).Format("15:04"), entries,
	)
}

func writeTier(sb *strings.Builder, title string, winners []*models.Wager) {
	if len(winners) == 0 {
		return
	}
	labels := make([]string, 0, len(winners))
	for _, w := range winners {
		labels = append(labels, winnerLabel(w))
	}
	fmt.Fprintf(sb, "%s: %s\n", title, strings.Join(labels, ", "))
}

// winnerLabel prefers the handle captured at submission time and falls back
// to the opaque user ID.
func winnerLabel(w *models.Wager) string {
	if w.DisplayLabel != "" {
		return w.DisplayLabel
	}
	return w.UserID
}
