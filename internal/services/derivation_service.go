package services

import (
	"fmt"
	"sort"
	"time"

	"lifecoach/internal/config"
	"lifecoach/internal/models"
)

// DerivationConfig holds the tunable thresholds of the derivation engine
type DerivationConfig struct {
	AdvanceNoticeLead  time.Duration // lead when the commitment has no location
	DefaultTravelTime  time.Duration // travel fallback for located commitments
	DefaultPrepTime    time.Duration // preparation fallback
	LongHorizon        time.Duration // beyond this, add an advance reminder
	HighPriorityWindow time.Duration // fire-to-event gap that makes a reminder high priority
}

// DerivationConfigFrom extracts the derivation thresholds from app config
func DerivationConfigFrom(cfg *config.Config) DerivationConfig {
	return DerivationConfig{
		AdvanceNoticeLead:  cfg.AdvanceNoticeLead,
		DefaultTravelTime:  cfg.DefaultTravelTime,
		DefaultPrepTime:    cfg.DefaultPrepTime,
		LongHorizon:        cfg.LongHorizon,
		HighPriorityWindow: cfg.HighPriorityWindow,
	}
}

// DerivationService maps a commitment to its reminders. It is a pure
// computation: no I/O, no shared state, deterministic for identical input.
type DerivationService struct {
	cfg DerivationConfig
}

// NewDerivationService creates a derivation service with the given thresholds
func NewDerivationService(cfg DerivationConfig) *DerivationService {
	return &DerivationService{cfg: cfg}
}

// FromCommitment derives the reminders for one commitment:
//
//  1. The primary reminder fires at the departure time when the commitment
//     has a location (extractor hints win over configured fallbacks), else
//     at the advance-notice lead before the commitment.
//  2. Commitments whose primary fire time is more than the long-horizon
//     threshold away from the communication also get a low-priority advance
//     reminder at the start of the commitment's day.
//  3. Priority is high when the fire time is within the high-priority window
//     of the commitment, normal otherwise, low for advance reminders.
//
// The result is never empty for a valid commitment, is sorted ascending by
// fire time (ties: higher priority first), and every fire time is at or
// before the commitment's time.
func (s *DerivationService) FromCommitment(comm models.Communication, c models.Commitment) ([]*models.Reminder, error) {
	if c.When.IsZero() {
		return nil, fmt.Errorf("deriving reminders for %q: %w", c.What, models.ErrInvalidCommitment)
	}

	fireTime := c.When.Add(-s.cfg.AdvanceNoticeLead)
	if c.HasLocation() {
		fireTime = c.DepartureTime(s.cfg.DefaultTravelTime, s.cfg.DefaultPrepTime)
	}
	if fireTime.After(c.When) {
		fireTime = c.When
	}

	priority := models.PriorityNormal
	if c.When.Sub(fireTime) <= s.cfg.HighPriorityWindow {
		priority = models.PriorityHigh
	}

	reminders := []*models.Reminder{
		models.NewReminder(fireTime, primaryMessage(&c), priority, c),
	}

	if fireTime.Sub(comm.Timestamp) > s.cfg.LongHorizon {
		if advanceAt, ok := advanceReminderTime(comm.Timestamp, fireTime, c.When); ok {
			reminders = append(reminders,
				models.NewReminder(advanceAt, advanceMessage(&c), models.PriorityLow, c))
		}
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].When.Equal(reminders[j].When) {
			return reminders[i].Priority.Rank() > reminders[j].Priority.Rank()
		}
		return reminders[i].When.Before(reminders[j].When)
	})

	return reminders, nil
}

// advanceReminderTime places the early heads-up at the start of the
// commitment's day. The slot is dropped when it would fire before the
// communication arrived or after the primary reminder.
func advanceReminderTime(sent, primary, when time.Time) (time.Time, bool) {
	y, m, d := when.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, when.Location())

	if !startOfDay.After(sent) || !startOfDay.Before(primary) {
		return time.Time{}, false
	}
	return startOfDay, true
}

func primaryMessage(c *models.Commitment) string {
	at := c.When.Format("15:04")
	if c.HasLocation() {
		return fmt.Sprintf("Time to get ready: %s at %s (%s).", c.What, at, c.Where)
	}
	return fmt.Sprintf("Reminder: %s at %s.", c.What, at)
}

func advanceMessage(c *models.Commitment) string {
	return fmt.Sprintf("Heads up: %s on %s.", c.What, c.When.Format("Jan 2 at 15:04"))
}
