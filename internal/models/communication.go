package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Communication represents an inbound message between two people.
// Immutable once received: relative time expressions inside the content
// ("tomorrow at 3") are always anchored to Timestamp, never to wall-clock now.
type Communication struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
}

// ProcessCommunicationRequest is the payload accepted by the HTTP endpoint
// and the queue consumer
type ProcessCommunicationRequest struct {
	Content   string     `json:"content" validate:"required"`
	Sender    string     `json:"sender" validate:"required"`
	Recipient string     `json:"recipient" validate:"required"`
	Timestamp *time.Time `json:"timestamp,omitempty"` // defaults to receive time
}

// Validate checks the request for required fields
func (r *ProcessCommunicationRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(r.Sender) == "" || strings.TrimSpace(r.Recipient) == "" {
		return ErrMissingParticipant
	}
	return nil
}

// ToCommunication converts the request into a Communication entity,
// assigning an ID and defaulting the timestamp to now
func (r *ProcessCommunicationRequest) ToCommunication() Communication {
	ts := time.Now().UTC()
	if r.Timestamp != nil && !r.Timestamp.IsZero() {
		ts = r.Timestamp.UTC()
	}
	return Communication{
		ID:        uuid.New().String(),
		Timestamp: ts,
		Content:   r.Content,
		Sender:    r.Sender,
		Recipient: r.Recipient,
	}
}

// ProcessCommunicationResponse is returned by the HTTP endpoint after processing
type ProcessCommunicationResponse struct {
	CommunicationID string              `json:"communicationId"`
	Processed       bool                `json:"processed"`
	Skipped         int                 `json:"skipped,omitempty"` // commitments dropped as unresolvable
	Reminders       []*ReminderResponse `json:"reminders"`
}
