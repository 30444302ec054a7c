package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

// Redis lock shared by all instances so due reminders are dispatched once
const (
	dispatchLockKey = "lifecoach:dispatch:lock"
	dispatchLockTTL = 25 * time.Second
)

// DispatchService periodically scans for due reminders and hands them to
// the notification sink, and publishes a daily digest of upcoming reminders.
type DispatchService struct {
	scheduler  gocron.Scheduler
	reminders  *ReminderService
	notifier   *NotifierService
	redis      *RedisService
	metrics    *Metrics
	interval   time.Duration
	digestCron string
	instanceID string
}

// NewDispatchService creates the dispatch service. The digest cron
// expression is validated up front so a bad config fails at startup, not at
// first fire.
func NewDispatchService(
	reminders *ReminderService,
	notifier *NotifierService,
	redisService *RedisService,
	metrics *Metrics,
	interval time.Duration,
	digestCron string,
	instanceID string,
) (*DispatchService, error) {
	if _, err := cron.ParseStandard(digestCron); err != nil {
		return nil, fmt.Errorf("invalid digest cron expression %q: %w", digestCron, err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &DispatchService{
		scheduler:  scheduler,
		reminders:  reminders,
		notifier:   notifier,
		redis:      redisService,
		metrics:    metrics,
		interval:   interval,
		digestCron: digestCron,
		instanceID: instanceID,
	}, nil
}

// Start registers the dispatch and digest jobs and starts the scheduler
func (s *DispatchService) Start() error {
	if _, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.dispatchDue),
	); err != nil {
		return fmt.Errorf("failed to schedule dispatch job: %w", err)
	}

	if _, err := s.scheduler.NewJob(
		gocron.CronJob(s.digestCron, false),
		gocron.NewTask(s.publishDigest),
	); err != nil {
		return fmt.Errorf("failed to schedule digest job: %w", err)
	}

	s.scheduler.Start()
	log.Printf("⏰ Dispatch service started (scan every %s, digest at %q)", s.interval, s.digestCron)
	return nil
}

// dispatchDue hands all newly due reminders to the sink. A Redis lock keeps
// multiple instances from dispatching the same reminder.
func (s *DispatchService) dispatchDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	acquired, err := s.redis.AcquireLock(ctx, dispatchLockKey, s.instanceID, dispatchLockTTL)
	if err != nil {
		log.Printf("⚠️  [DISPATCH] Lock error: %v", err)
		return
	}
	if !acquired {
		return // another instance is dispatching
	}
	defer s.redis.ReleaseLock(ctx, dispatchLockKey, s.instanceID)

	due, err := s.reminders.PendingDispatch(ctx, time.Now())
	if err != nil {
		log.Printf("⚠️  [DISPATCH] Failed to query due reminders: %v", err)
		return
	}

	for _, r := range due {
		if err := s.notifier.PublishReminder(ctx, EventReminderDue, "", r); err != nil {
			log.Printf("⚠️  [DISPATCH] Failed to publish reminder %s: %v", r.ID, err)
			continue
		}
		if err := s.reminders.MarkDispatched(ctx, r.ID); err != nil {
			log.Printf("⚠️  [DISPATCH] Failed to mark reminder %s dispatched: %v", r.ID, err)
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordReminderDispatched()
		}
	}

	if len(due) > 0 {
		log.Printf("🔔 [DISPATCH] Dispatched %d due reminders", len(due))
	}
}

// publishDigest sends a summary of the next 24 hours to the sink
func (s *DispatchService) publishDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	upcoming, err := s.reminders.Upcoming(ctx, time.Now(), 24*time.Hour)
	if err != nil {
		log.Printf("⚠️  [DIGEST] Failed to query upcoming reminders: %v", err)
		return
	}
	if len(upcoming) == 0 {
		return
	}

	if err := s.notifier.PublishDigest(ctx, upcoming); err != nil {
		log.Printf("⚠️  [DIGEST] Failed to publish digest: %v", err)
		return
	}
	log.Printf("📅 [DIGEST] Published digest with %d upcoming reminders", len(upcoming))
}

// Stop shuts the scheduler down
func (s *DispatchService) Stop() error {
	return s.scheduler.Shutdown()
}
