package jobs

import (
	"context"
	"log"
	"time"

	"lifecoach/internal/services"
)

// RetentionCleanupJob purges acknowledged reminders older than the retention
// window. Pending reminders are never touched: the domain rule is that live
// reminders are superseded by acknowledgment, not deleted.
type RetentionCleanupJob struct {
	reminders     *services.ReminderService
	retentionDays int
}

// NewRetentionCleanupJob creates a new retention cleanup job
func NewRetentionCleanupJob(reminders *services.ReminderService, retentionDays int) *RetentionCleanupJob {
	return &RetentionCleanupJob{
		reminders:     reminders,
		retentionDays: retentionDays,
	}
}

// Run executes the retention cleanup
func (j *RetentionCleanupJob) Run(ctx context.Context) error {
	if j.retentionDays <= 0 {
		log.Println("[RETENTION] Retention cleanup disabled (RETENTION_DAYS <= 0)")
		return nil
	}

	startTime := time.Now()
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.reminders.DeleteAcknowledgedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[RETENTION] Cleanup failed: %v", err)
		return err
	}

	log.Printf("[RETENTION] Cleanup complete: purged %d acknowledged reminders older than %s in %v",
		deleted, cutoff.Format("2006-01-02"), time.Since(startTime))
	return nil
}

// GetNextRunTime returns when the job should run next (daily at 2 AM UTC)
func (j *RetentionCleanupJob) GetNextRunTime() time.Time {
	now := time.Now().UTC()

	nextRun := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, time.UTC)
	if !nextRun.After(now) {
		nextRun = nextRun.AddDate(0, 0, 1)
	}

	return nextRun
}
