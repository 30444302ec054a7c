package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifecoach/internal/models"
)

type stubExtractor struct {
	commitments []models.Commitment
	err         error
}

func (s *stubExtractor) IdentifyCommitments(_ context.Context, _ models.Communication) ([]models.Commitment, error) {
	return s.commitments, s.err
}

func newTestProcessor(extractor CommitmentExtractor) *CommunicationProcessor {
	rules := NewRulesService("")
	travel := NewTravelService(rules, 15*time.Minute)
	derivation := NewDerivationService(testDerivationConfig())
	return NewCommunicationProcessor(extractor, derivation, travel, nil)
}

func testCommunication() models.Communication {
	return models.Communication{
		ID:        "comm-1",
		Timestamp: time.Date(2026, 3, 10, 11, 45, 0, 0, time.UTC),
		Content:   "irrelevant, the extractor is stubbed",
		Sender:    "alice",
		Recipient: "bob",
	}
}

func TestProcessCommunicationNoCommitments(t *testing.T) {
	processor := newTestProcessor(&stubExtractor{})

	result, err := processor.ProcessCommunication(context.Background(), testCommunication())
	if err != nil {
		t.Fatalf("ProcessCommunication failed: %v", err)
	}
	if len(result.Reminders) != 0 {
		t.Errorf("Expected 0 reminders, got %d", len(result.Reminders))
	}
	if result.Skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", result.Skipped)
	}
}

func TestProcessCommunicationSkipsInvalidCommitment(t *testing.T) {
	when := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	extractor := &stubExtractor{commitments: []models.Commitment{
		{When: when, Who: "alice", What: "first"},
		{Who: "alice", What: "no time resolved"}, // zero When
		{When: when.Add(1 * time.Hour), Who: "alice", What: "third"},
	}}
	processor := newTestProcessor(extractor)

	result, err := processor.ProcessCommunication(context.Background(), testCommunication())
	if err != nil {
		t.Fatalf("ProcessCommunication failed: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped commitment, got %d", result.Skipped)
	}
	if len(result.Reminders) != 2 {
		t.Errorf("Expected reminders from the 2 valid commitments, got %d", len(result.Reminders))
	}
}

func TestProcessCommunicationExtractorFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	processor := newTestProcessor(&stubExtractor{err: boom})

	_, err := processor.ProcessCommunication(context.Background(), testCommunication())
	if !errors.Is(err, boom) {
		t.Errorf("Expected extractor error to propagate, got %v", err)
	}
}

func TestProcessCommunicationFillsTravelEstimate(t *testing.T) {
	when := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	measured := 20 * time.Minute

	// First message teaches the travel lead for "school"
	first := &stubExtractor{commitments: []models.Commitment{
		{When: when, Who: "alice", What: "pick up", Where: "school", EstimatedTravelTime: &measured},
	}}
	processor := newTestProcessor(first)
	if _, err := processor.ProcessCommunication(context.Background(), testCommunication()); err != nil {
		t.Fatalf("ProcessCommunication failed: %v", err)
	}

	// Second message to the same place has no hint: the cached lead applies
	processor.extractor = &stubExtractor{commitments: []models.Commitment{
		{When: when.Add(48 * time.Hour), Who: "alice", What: "pick up again", Where: "school"},
	}}

	comm := testCommunication()
	comm.Timestamp = when.Add(47 * time.Hour)
	result, err := processor.ProcessCommunication(context.Background(), comm)
	if err != nil {
		t.Fatalf("ProcessCommunication failed: %v", err)
	}

	if len(result.Reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(result.Reminders))
	}
	expected := when.Add(48 * time.Hour).Add(-20 * time.Minute)
	if !result.Reminders[0].When.Equal(expected) {
		t.Errorf("Expected cached travel lead to apply (fire at %v), got %v",
			expected, result.Reminders[0].When)
	}
}
