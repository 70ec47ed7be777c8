package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khamphay/laolotto-bot/internal/config"
)

// RoundIDLayout is the canonical round key format, a calendar date in the
// draw's reference time zone.
const RoundIDLayout = "2006-01-02"

// RoundClock maps wall-clock time to the currently open betting round. Rounds
// are identified by the date of the draw they target: draw day D stays current
// until exactly its announcement instant, at which point the round flips to
// the next scheduled draw day. All methods are pure with respect to their
// time argument.
type RoundClock struct {
	loc          *time.Location
	days         map[time.Weekday]bool
	announceHour int
	announceMin  int
	cutoffHour   int
	cutoffMin    int
}

// NewRoundClock builds a RoundClock from the configured weekly schedule
func NewRoundClock(cfg config.DrawConfig) (*RoundClock, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid draw timezone %q: %w", cfg.Timezone, err)
	}

	days := make(map[time.Weekday]bool, len(cfg.Days))
	for _, name := range cfg.Days {
		day, ok := parseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("invalid draw day %q", name)
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no draw days configured")
	}

	ah, am, err := parseClockTime(cfg.AnnounceTime)
	if err != nil {
		return nil, fmt.Errorf("invalid announce time: %w", err)
	}
	ch, cm, err := parseClockTime(cfg.CutoffTime)
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff time: %w", err)
	}

	return &RoundClock{
		loc:          loc,
		days:         days,
		announceHour: ah,
		announceMin:  am,
		cutoffHour:   ch,
		cutoffMin:    cm,
	}, nil
}

// Location returns the draw's reference time zone
func (c *RoundClock) Location() *time.Location {
	return c.loc
}

// CurrentDrawDate returns the draw day the open round targets: the earliest
// scheduled draw day whose announcement is still in the future. At exactly
// the announcement instant the round flips to the next draw day.
func (c *RoundClock) CurrentDrawDate(now time.Time) time.Time {
	local := now.In(c.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	for i := 0; i < 8; i++ {
		cand := day.AddDate(0, 0, i)
		if c.days[cand.Weekday()] && local.Before(c.AnnounceAt(cand)) {
			return cand
		}
	}
	// Unreachable with a non-empty weekly schedule
	return day
}

// CurrentRoundID returns the round key for the open round
func (c *RoundClock) CurrentRoundID(now time.Time) string {
	return c.CurrentDrawDate(now).Format(RoundIDLayout)
}

// ClosedDrawDate returns the most recent draw day whose announcement instant
// has been reached. The announcement job fires at that instant, when the open
// round has already flipped, so it resolves its target round through here.
func (c *RoundClock) ClosedDrawDate(now time.Time) (time.Time, bool) {
	local := now.In(c.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	for i := 0; i < 8; i++ {
		cand := day.AddDate(0, 0, -i)
		if c.days[cand.Weekday()] && !local.Before(c.AnnounceAt(cand)) {
			return cand, true
		}
	}
	return time.Time{}, false
}

// ClosedRoundID returns the round key of the most recently announced draw day
func (c *RoundClock) ClosedRoundID(now time.Time) (string, bool) {
	date, ok := c.ClosedDrawDate(now)
	if !ok {
		return "", false
	}
	return date.Format(RoundIDLayout), true
}

// AnnounceAt returns the announcement instant for a draw day
func (c *RoundClock) AnnounceAt(drawDate time.Time) time.Time {
	d := drawDate.In(c.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.announceHour, c.announceMin, 0, 0, c.loc)
}

// CutoffAt returns the instant after which no new wagers are accepted for a
// draw day's round
func (c *RoundClock) CutoffAt(drawDate time.Time) time.Time {
	d := drawDate.In(c.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.cutoffHour, c.cutoffMin, 0, 0, c.loc)
}

// IsOpen reports whether the open round still accepts wagers, i.e. now is
// before the round's cutoff
func (c *RoundClock) IsOpen(now time.Time) bool {
	drawDate := c.CurrentDrawDate(now)
	return now.In(c.loc).Before(c.CutoffAt(drawDate))
}

// parseWeekday parses a weekday name (case-insensitive)
func parseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	default:
		return 0, false
	}
}

// parseClockTime parses an "HH:MM" wall-clock time
func parseClockTime(s string) (hour, min int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, min, nil
}
