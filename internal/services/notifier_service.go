package services

import (
	"context"
	"encoding/json"
	"fmt"

	"lifecoach/internal/models"
)

// Event types published to the notification sink
const (
	EventReminderDerived = "reminder.derived"
	EventReminderDue     = "reminder.due"
	EventDailyDigest     = "reminder.digest"
)

// ReminderEvent is the payload handed to the notification sink. Reminders
// are passed by value; the sink decides delivery.
type ReminderEvent struct {
	Type            string                     `json:"type"`
	InstanceID      string                     `json:"instanceId"`
	CommunicationID string                     `json:"communicationId,omitempty"`
	Reminder        *models.ReminderResponse   `json:"reminder,omitempty"`
	Upcoming        []*models.ReminderResponse `json:"upcoming,omitempty"` // digest only
}

// NotifierService publishes reminder events to the sink channel. The core
// makes no assumption about delivery latency or guarantee.
type NotifierService struct {
	redis      *RedisService
	channel    string
	instanceID string
}

// NewNotifierService creates a notifier publishing to the given channel
func NewNotifierService(redisService *RedisService, channel, instanceID string) *NotifierService {
	return &NotifierService{
		redis:      redisService,
		channel:    channel,
		instanceID: instanceID,
	}
}

// PublishReminder hands one reminder to the sink
func (s *NotifierService) PublishReminder(ctx context.Context, eventType, communicationID string, r *models.Reminder) error {
	event := &ReminderEvent{
		Type:            eventType,
		InstanceID:      s.instanceID,
		CommunicationID: communicationID,
		Reminder:        r.ToResponse(),
	}
	return s.publish(ctx, event)
}

// PublishDigest hands an upcoming-reminder summary to the sink
func (s *NotifierService) PublishDigest(ctx context.Context, reminders []*models.Reminder) error {
	event := &ReminderEvent{
		Type:       EventDailyDigest,
		InstanceID: s.instanceID,
	}
	for _, r := range reminders {
		event.Upcoming = append(event.Upcoming, r.ToResponse())
	}
	return s.publish(ctx, event)
}

func (s *NotifierService) publish(ctx context.Context, event *ReminderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder event: %w", err)
	}
	return s.redis.Publish(ctx, s.channel, data)
}
