package services

import (
	"errors"
	"testing"
	"time"

	"lifecoach/internal/models"
)

func testDerivationConfig() DerivationConfig {
	return DerivationConfig{
		AdvanceNoticeLead:  15 * time.Minute,
		DefaultTravelTime:  15 * time.Minute,
		DefaultPrepTime:    0,
		LongHorizon:        24 * time.Hour,
		HighPriorityWindow: 30 * time.Minute,
	}
}

func TestFromCommitmentWithTravelHint(t *testing.T) {
	// Message sent 11:45, school run at 15:30, 20 minutes travel:
	// the single reminder fires at 15:10 at high priority
	svc := NewDerivationService(testDerivationConfig())

	sent := time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	travel := 20 * time.Minute
	commitment := models.Commitment{
		When:                time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
		Who:                 "alice",
		What:                "pick up the kids",
		Where:               "school",
		EstimatedTravelTime: &travel,
	}

	reminders, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(reminders))
	}

	expected := time.Date(2026, 3, 10, 15, 10, 0, 0, time.UTC)
	if !reminders[0].When.Equal(expected) {
		t.Errorf("Expected fire time %v, got %v", expected, reminders[0].When)
	}
	if reminders[0].Priority != models.PriorityHigh {
		t.Errorf("Expected high priority, got %s", reminders[0].Priority)
	}
}

func TestFromCommitmentWithoutLocation(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	sent := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	commitment := models.Commitment{
		When: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Who:  "alice",
		What: "call the bank",
	}

	reminders, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(reminders))
	}

	// No location: advance-notice lead before the commitment
	expected := commitment.When.Add(-15 * time.Minute)
	if !reminders[0].When.Equal(expected) {
		t.Errorf("Expected fire time %v, got %v", expected, reminders[0].When)
	}
}

func TestFromCommitmentNormalPriorityOutsideWindow(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	sent := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	travel := 45 * time.Minute
	commitment := models.Commitment{
		When:                time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Who:                 "alice",
		What:                "flight check-in",
		Where:               "airport",
		EstimatedTravelTime: &travel,
	}

	reminders, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}

	if reminders[0].Priority != models.PriorityNormal {
		t.Errorf("Expected normal priority for 45m gap, got %s", reminders[0].Priority)
	}
}

func TestFromCommitmentLongHorizonAddsAdvanceReminder(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	sent := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	commitment := models.Commitment{
		When: time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC),
		Who:  "alice",
		What: "dentist appointment",
	}

	reminders, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}

	if len(reminders) != 2 {
		t.Fatalf("Expected 2 reminders for a far-out commitment, got %d", len(reminders))
	}

	// Ascending by fire time: the low-priority heads-up comes first,
	// at the start of the commitment's day
	if reminders[0].Priority != models.PriorityLow {
		t.Errorf("Expected first reminder to be low priority, got %s", reminders[0].Priority)
	}
	expectedAdvance := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !reminders[0].When.Equal(expectedAdvance) {
		t.Errorf("Expected advance reminder at %v, got %v", expectedAdvance, reminders[0].When)
	}
	if !reminders[0].When.Before(reminders[1].When) {
		t.Error("Expected reminders sorted ascending by fire time")
	}

	for _, r := range reminders {
		if r.When.After(commitment.When) {
			t.Errorf("Reminder at %v fires after the commitment at %v", r.When, commitment.When)
		}
	}
}

func TestFromCommitmentSameDayNoAdvanceReminder(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	// Less than the long-horizon threshold away: no heads-up slot
	sent := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	commitment := models.Commitment{
		When: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		Who:  "alice",
		What: "team dinner",
	}

	reminders, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Errorf("Expected 1 reminder for same-day commitment, got %d", len(reminders))
	}
}

func TestFromCommitmentZeroWhen(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	comm := models.Communication{ID: "c1", Timestamp: time.Now()}
	_, err := svc.FromCommitment(comm, models.Commitment{What: "something"})
	if !errors.Is(err, models.ErrInvalidCommitment) {
		t.Errorf("Expected ErrInvalidCommitment, got %v", err)
	}
}

func TestFromCommitmentClampsFireTime(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	// A bogus negative travel hint must never push the fire time past
	// the commitment itself
	sent := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	travel := -10 * time.Minute
	commitment := models.Commitment{
		When:                time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		Who:                 "alice",
		What:                "standup",
		Where:               "office",
		EstimatedTravelTime: &travel,
	}

	reminders, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}
	if reminders[0].When.After(commitment.When) {
		t.Errorf("Expected fire time clamped to %v, got %v", commitment.When, reminders[0].When)
	}
}

func TestFromCommitmentIsDeterministic(t *testing.T) {
	svc := NewDerivationService(testDerivationConfig())

	sent := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	comm := models.Communication{ID: "c1", Timestamp: sent}
	commitment := models.Commitment{
		When: time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC),
		Who:  "alice",
		What: "dentist appointment",
	}

	first, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}
	second, err := svc.FromCommitment(comm, commitment)
	if err != nil {
		t.Fatalf("FromCommitment failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Expected identical reminder counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].When.Equal(second[i].When) || first[i].Priority != second[i].Priority {
			t.Errorf("Expected identical reminder %d, got %v/%s and %v/%s",
				i, first[i].When, first[i].Priority, second[i].When, second[i].Priority)
		}
	}
}
