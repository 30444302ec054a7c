package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewReminder(t *testing.T) {
	when := time.Date(2026, 3, 10, 15, 10, 0, 0, time.UTC)
	commitment := Commitment{
		When: time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
		Who:  "alice",
		What: "pick up the kids",
	}

	r := NewReminder(when, "Time to go", PriorityHigh, commitment)

	if r.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if !r.When.Equal(when) {
		t.Errorf("Expected When %v, got %v", when, r.When)
	}
	if r.Acknowledged {
		t.Error("Expected new reminder to be unacknowledged")
	}
	if r.Commitment.Who != "alice" {
		t.Errorf("Expected commitment Who alice, got %s", r.Commitment.Who)
	}
}

func TestAcknowledgeIsIdempotent(t *testing.T) {
	r := NewReminder(time.Now(), "test", PriorityNormal, Commitment{When: time.Now()})

	r.Acknowledge()
	if !r.Acknowledged {
		t.Fatal("Expected reminder to be acknowledged")
	}
	firstUpdate := r.UpdatedAt

	r.Acknowledge()
	if !r.Acknowledged {
		t.Error("Expected reminder to stay acknowledged")
	}
	if !r.UpdatedAt.Equal(firstUpdate) {
		t.Error("Expected second acknowledge to be a no-op")
	}
}

func TestSnooze(t *testing.T) {
	when := time.Date(2026, 3, 10, 15, 10, 0, 0, time.UTC)
	r := NewReminder(when, "test", PriorityNormal, Commitment{When: when})
	r.Acknowledge()

	if err := r.Snooze(10 * time.Minute); err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}

	expected := when.Add(10 * time.Minute)
	if !r.When.Equal(expected) {
		t.Errorf("Expected When %v, got %v", expected, r.When)
	}
	if r.Acknowledged {
		t.Error("Expected snooze to re-open an acknowledged reminder")
	}
}

func TestSnoozeRejectsNonPositiveDurations(t *testing.T) {
	when := time.Date(2026, 3, 10, 15, 10, 0, 0, time.UTC)

	for _, d := range []time.Duration{0, -5 * time.Minute} {
		r := NewReminder(when, "test", PriorityNormal, Commitment{When: when})
		err := r.Snooze(d)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("Expected ErrInvalidDuration for %v, got %v", d, err)
		}
		if !r.When.Equal(when) {
			t.Errorf("Expected When unchanged for %v, got %v", d, r.When)
		}
	}
}

func TestIsDueAt(t *testing.T) {
	when := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		now          time.Time
		acknowledged bool
		due          bool
	}{
		{"before fire time", when.Add(-1 * time.Minute), false, false},
		{"exactly at fire time", when, false, true},
		{"after fire time", when.Add(1 * time.Hour), false, true},
		{"acknowledged and past", when.Add(1 * time.Hour), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReminder(when, "test", PriorityNormal, Commitment{When: when})
			if tt.acknowledged {
				r.Acknowledge()
			}
			if got := r.IsDueAt(tt.now); got != tt.due {
				t.Errorf("Expected IsDueAt=%v, got %v", tt.due, got)
			}
		})
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityHigh.Rank() <= PriorityNormal.Rank() {
		t.Error("Expected high to outrank normal")
	}
	if PriorityNormal.Rank() <= PriorityLow.Rank() {
		t.Error("Expected normal to outrank low")
	}
	if Priority("bogus").Rank() != 0 {
		t.Error("Expected unknown priority to rank 0")
	}
}

func TestReminderToResponse(t *testing.T) {
	when := time.Now().Add(-1 * time.Minute)
	commitment := Commitment{
		When:  when.Add(20 * time.Minute),
		Who:   "bob",
		What:  "dentist appointment",
		Where: "clinic",
	}
	r := NewReminder(when, "Time to go", PriorityHigh, commitment)

	resp := r.ToResponse()

	if resp.ID != r.ID {
		t.Errorf("Expected ID %s, got %s", r.ID, resp.ID)
	}
	if !resp.Due {
		t.Error("Expected past unacknowledged reminder to be due")
	}
	if resp.Commitment.Where != "clinic" {
		t.Errorf("Expected commitment Where clinic, got %s", resp.Commitment.Where)
	}
}
