package services

import (
	"context"
	"time"

	"github.com/khamphay/laolotto-bot/internal/models"
	"golang.org/x/exp/slog"
)

// AnnouncementFormatter renders a published result and its winner breakdown
// into outbound text. Formatting stays outside the core; the Telegram layer
// provides the implementation.
type AnnouncementFormatter interface {
	FormatAnnouncement(result *models.Result, breakdown *models.PrizeBreakdown) string
	FormatReminder(roundID string, entries int64, cutoff time.Time) string
}

// LifecycleService glues the round lifecycle together: the scheduler fires it
// at the reminder and announcement instants, and it drives the result,
// wager and prize services plus outbound delivery.
type LifecycleService struct {
	clock     *RoundClock
	wagers    WagerService
	results   ResultService
	prizes    *PrizeService
	announcer Announcer
	formatter AnnouncementFormatter
	chatID    int64
	now       func() time.Time
}

// NewLifecycleService creates a new LifecycleService. chatID is the group the
// reminder and announcement messages are delivered to.
func NewLifecycleService(
	clock *RoundClock,
	wagers WagerService,
	results ResultService,
	prizes *PrizeService,
	announcer Announcer,
	formatter AnnouncementFormatter,
	chatID int64,
) *LifecycleService {
	return &LifecycleService{
		clock:     clock,
		wagers:    wagers,
		results:   results,
		prizes:    prizes,
		announcer: announcer,
		formatter: formatter,
		chatID:    chatID,
		now:       time.Now,
	}
}

// WithNow overrides the wall clock, for tests
func (s *LifecycleService) WithNow(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// AnnounceRound publishes the result of the round that just closed, delivers
// the winner summary and clears the round's wagers. It is safe to invoke
// twice for the same round: the second invocation finds the result already
// published and no-ops. A missing result (admin never entered the draw) is
// logged and skipped, never a crash. Wager cleanup runs only after delivery
// was attempted and is best-effort; its failure does not invalidate the
// round's outcome.
func (s *LifecycleService) AnnounceRound(ctx context.Context) error {
	roundID, ok := s.clock.ClosedRoundID(s.now())
	if !ok {
		slog.Warn("AnnounceRound: no closed round to announce")
		return nil
	}

	result, err := s.results.Announce(ctx, roundID)
	if err != nil {
		switch err {
		case ErrResultNotFound:
			slog.Warn("AnnounceRound: no result recorded, skipping", "roundId", roundID)
			return nil
		case ErrAlreadyAnnounced:
			slog.Warn("AnnounceRound: round already announced, skipping", "roundId", roundID)
			return nil
		default:
			slog.Error("AnnounceRound: failed to publish result", "error", err, "roundId", roundID)
			return err
		}
	}

	wagers, err := s.wagers.WagersForRound(ctx, roundID)
	if err != nil {
		slog.Error("AnnounceRound: failed to fetch wagers", "error", err, "roundId", roundID)
		// The result is out; deliver it without a winner list rather than
		// leaving players with nothing.
		wagers = []*models.Wager{}
	}

	breakdown := s.prizes.Match(result, wagers)
	text := s.formatter.FormatAnnouncement(result, breakdown)
	if err := s.announcer.Send(s.chatID, text); err != nil {
		// Delivery failure does not roll back the published result
		slog.Error("AnnounceRound: failed to deliver announcement", "error", err, "roundId", roundID)
	}

	if _, err := s.wagers.ClearRound(ctx, roundID); err != nil {
		slog.Error("AnnounceRound: failed to clear round wagers", "error", err, "roundId", roundID)
	}

	slog.Info("Round announced", "roundId", roundID, "winners", breakdown.TotalWinners(), "entries", len(wagers))
	return nil
}

// RemindRound posts a reminder for the open round before its cutoff
func (s *LifecycleService) RemindRound(ctx context.Context) error {
	now := s.now()
	if !s.clock.IsOpen(now) {
		slog.Warn("RemindRound: round already past cutoff, skipping")
		return nil
	}
	drawDate := s.clock.CurrentDrawDate(now)
	roundID := drawDate.Format(RoundIDLayout)

	entries, err := s.wagers.CountForRound(ctx, roundID)
	if err != nil {
		slog.Error("RemindRound: failed to count entries", "error", err, "roundId", roundID)
		return err
	}

	text := s.formatter.FormatReminder(roundID, entries, s.clock.CutoffAt(drawDate))
	if err := s.announcer.Send(s.chatID, text); err != nil {
		slog.Error("RemindRound: failed to deliver reminder", "error", err, "roundId", roundID)
		return err
	}
	return nil
}
