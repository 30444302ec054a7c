package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority is an ordered reminder category
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Rank returns the sort weight of a priority (higher fires first on ties)
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is a known priority value
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}

// Reminder is a scheduled notification derived from exactly one commitment.
// Reminders are never deleted, only acknowledged; snoozing pushes When
// forward and re-opens an acknowledged reminder.
type Reminder struct {
	ID           string    `json:"id"`
	When         time.Time `json:"when"` // fire time, always <= Commitment.When
	Message      string    `json:"message"`
	Priority     Priority  `json:"priority"`
	Acknowledged bool      `json:"acknowledged"`

	// Back-reference to the originating commitment. Read-only: the reminder
	// does not own the commitment's lifecycle.
	Commitment Commitment `json:"commitment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewReminder creates a reminder with a fresh ID
func NewReminder(when time.Time, message string, priority Priority, commitment Commitment) *Reminder {
	now := time.Now().UTC()
	return &Reminder{
		ID:         uuid.New().String(),
		When:       when,
		Message:    message,
		Priority:   priority,
		Commitment: commitment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Acknowledge marks the reminder as seen. Acknowledging an already
// acknowledged reminder is a no-op.
func (r *Reminder) Acknowledge() {
	if r.Acknowledged {
		return
	}
	r.Acknowledged = true
	r.UpdatedAt = time.Now().UTC()
}

// Snooze postpones the reminder by the given duration and re-opens it if it
// was acknowledged. Non-positive durations are rejected.
func (r *Reminder) Snooze(duration time.Duration) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}
	r.When = r.When.Add(duration)
	r.Acknowledged = false
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// IsDue reports whether the reminder should fire: its time has passed and it
// has not been acknowledged
func (r *Reminder) IsDue() bool {
	return r.IsDueAt(time.Now())
}

// IsDueAt is IsDue evaluated against an explicit clock
func (r *Reminder) IsDueAt(now time.Time) bool {
	return !r.Acknowledged && !now.Before(r.When)
}

// ReminderResponse is the API representation of a reminder
type ReminderResponse struct {
	ID           string             `json:"id"`
	When         time.Time          `json:"when"`
	Message      string             `json:"message"`
	Priority     Priority           `json:"priority"`
	Acknowledged bool               `json:"acknowledged"`
	Due          bool               `json:"due"`
	Commitment   CommitmentResponse `json:"commitment"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ToResponse converts a Reminder to ReminderResponse
func (r *Reminder) ToResponse() *ReminderResponse {
	return &ReminderResponse{
		ID:           r.ID,
		When:         r.When,
		Message:      r.Message,
		Priority:     r.Priority,
		Acknowledged: r.Acknowledged,
		Due:          r.IsDue(),
		Commitment:   r.Commitment.ToResponse(),
		CreatedAt:    r.CreatedAt,
	}
}

// SnoozeReminderRequest is the payload for the snooze endpoint
type SnoozeReminderRequest struct {
	// Duration to postpone by, in minutes. Must be positive.
	Minutes int `json:"minutes" validate:"required"`
}
