package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/khamphay/laolotto-bot/internal/config"
	"github.com/khamphay/laolotto-bot/internal/services"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

const jobTimeout = 2 * time.Minute

// Scheduler fires the reminder and announcement jobs at the configured
// wall-clock instants in the draw's time zone. Jobs are bounded by a timeout
// and log-and-skip on failure; a broken storage layer must never crash the
// process from inside a cron tick.
type Scheduler struct {
	cron      *cron.Cron
	lifecycle *services.LifecycleService
	cfg       config.DrawConfig
}

// New creates a Scheduler bound to the draw schedule
func New(cfg config.DrawConfig, clock *services.RoundClock, lifecycle *services.LifecycleService) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(clock.Location())),
		lifecycle: lifecycle,
		cfg:       cfg,
	}

	announceSpec, err := cronSpec(cfg.AnnounceTime, cfg.Days)
	if err != nil {
		return nil, fmt.Errorf("invalid announce schedule: %w", err)
	}
	reminderSpec, err := cronSpec(cfg.ReminderTime, cfg.Days)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule: %w", err)
	}

	if _, err := s.cron.AddFunc(announceSpec, s.runAnnounce); err != nil {
		return nil, fmt.Errorf("failed to register announce job: %w", err)
	}
	if _, err := s.cron.AddFunc(reminderSpec, s.runReminder); err != nil {
		return nil, fmt.Errorf("failed to register reminder job: %w", err)
	}

	return s, nil
}

// Start launches the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", "days", s.cfg.Days, "announce", s.cfg.AnnounceTime, "reminder", s.cfg.ReminderTime)
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runAnnounce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.lifecycle.AnnounceRound(ctx); err != nil {
		slog.Error("Announce job failed", "error", err)
	}
}

func (s *Scheduler) runReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.lifecycle.RemindRound(ctx); err != nil {
		slog.Error("Reminder job failed", "error", err)
	}
}

// cronSpec builds a "MM HH * * DOW,..." spec from an HH:MM time and weekday names
func cronSpec(clockTime string, days []string) (string, error) {
	parts := strings.Split(strings.TrimSpace(clockTime), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM, got %q", clockTime)
	}

	dows := make([]string, 0, len(days))
	for _, day := range days {
		name := strings.ToUpper(strings.TrimSpace(day))
		if len(name) < 3 {
			return "", fmt.Errorf("invalid draw day %q", day)
		}
		dows = append(dows, name[:3])
	}
	if len(dows) == 0 {
		return "", fmt.Errorf("no draw days configured")
	}

	return fmt.Sprintf("%s %s * * %s", parts[1], parts[0], strings.Join(dows, ",")), nil
}
