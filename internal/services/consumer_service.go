package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lifecoach/internal/models"
)

// ConsumerService reads communication payloads from the inbound channel,
// processes them and hands the derived reminders to the notification sink.
// It is the asynchronous twin of the HTTP endpoint: same payload, same
// processing path.
type ConsumerService struct {
	redis     *RedisService
	processor *CommunicationProcessor
	reminders *ReminderService
	notifier  *NotifierService
	channel   string
	logger    *logrus.Logger

	pubsub *redis.PubSub
	ctx    context.Context
	cancel context.CancelFunc
}

// NewConsumerService creates a consumer for the given inbound channel
func NewConsumerService(
	redisService *RedisService,
	processor *CommunicationProcessor,
	reminders *ReminderService,
	notifier *NotifierService,
	channel string,
) *ConsumerService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, cancel := context.WithCancel(context.Background())
	return &ConsumerService{
		redis:     redisService,
		processor: processor,
		reminders: reminders,
		notifier:  notifier,
		channel:   channel,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start subscribes to the inbound channel and begins consuming messages
func (s *ConsumerService) Start() error {
	s.pubsub = s.redis.Subscribe(s.ctx, s.channel)

	// Wait for subscription confirmation
	if _, err := s.pubsub.Receive(s.ctx); err != nil {
		return err
	}

	go s.consume()

	s.logger.WithField("channel", s.channel).Info("Consumer started")
	return nil
}

func (s *ConsumerService) consume() {
	ch := s.pubsub.Channel()

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handleMessage(msg.Payload)
		}
	}
}

// handleMessage processes one inbound payload. Failures are logged and the
// consumer moves on: a malformed message must never block the channel.
func (s *ConsumerService) handleMessage(payload string) {
	var req models.ProcessCommunicationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		s.logger.WithError(err).Warn("Dropping unparseable message")
		return
	}

	if err := req.Validate(); err != nil {
		s.logger.WithError(err).Warn("Dropping invalid communication")
		return
	}

	comm := req.ToCommunication()
	logger := s.logger.WithFields(logrus.Fields{
		"communication_id": comm.ID,
		"sender":           comm.Sender,
	})

	result, err := s.processor.ProcessCommunication(s.ctx, comm)
	if err != nil {
		logger.WithError(err).Error("Failed to process communication")
		return
	}

	if err := s.reminders.SaveCommunication(s.ctx, comm); err != nil {
		logger.WithError(err).Error("Failed to persist communication")
		return
	}
	if err := s.reminders.SaveReminders(s.ctx, comm.ID, result.Reminders); err != nil {
		logger.WithError(err).Error("Failed to persist reminders")
		return
	}

	for _, r := range result.Reminders {
		if err := s.notifier.PublishReminder(s.ctx, EventReminderDerived, comm.ID, r); err != nil {
			logger.WithError(err).WithField("reminder_id", r.ID).Warn("Failed to publish reminder event")
		}
	}

	logger.WithFields(logrus.Fields{
		"reminders": len(result.Reminders),
		"skipped":   result.Skipped,
	}).Info("Communication processed")
}

// Stop stops consuming and closes the subscription
func (s *ConsumerService) Stop() error {
	s.cancel()
	if s.pubsub != nil {
		return s.pubsub.Close()
	}
	return nil
}
