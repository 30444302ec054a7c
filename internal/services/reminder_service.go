package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lifecoach/internal/database"
	"lifecoach/internal/models"
)

// ReminderService persists communications and reminders and owns the
// reminder state transitions (acknowledge, snooze) against the store.
type ReminderService struct {
	db *database.DB
}

// NewReminderService creates a reminder service backed by the given database
func NewReminderService(db *database.DB) *ReminderService {
	return &ReminderService{db: db}
}

// SaveCommunication stores an inbound communication
func (s *ReminderService) SaveCommunication(ctx context.Context, comm models.Communication) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO communications (id, timestamp, content, sender, recipient, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, comm.ID, formatTime(comm.Timestamp), comm.Content, comm.Sender, comm.Recipient,
		formatTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to save communication: %w", err)
	}
	return nil
}

// SaveReminders stores the reminders derived from a communication
func (s *ReminderService) SaveReminders(ctx context.Context, communicationID string, reminders []*models.Reminder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range reminders {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reminders
				(id, communication_id, when_at, message, priority, acknowledged,
				 commitment_when, commitment_who, commitment_what, commitment_where,
				 created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, communicationID, formatTime(r.When), r.Message, string(r.Priority),
			boolToInt(r.Acknowledged), formatTime(r.Commitment.When), r.Commitment.Who,
			r.Commitment.What, r.Commitment.Where, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to save reminder %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a reminder by ID
func (s *ReminderService) Get(ctx context.Context, id string) (*models.Reminder, error) {
	row := s.db.QueryRowContext(ctx, reminderSelect+` WHERE id = ?`, id)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrReminderNotFound
	}
	return r, err
}

// List returns reminders ordered by fire time. Acknowledged reminders are
// included only when requested.
func (s *ReminderService) List(ctx context.Context, includeAcknowledged bool, limit int) ([]*models.Reminder, error) {
	query := reminderSelect
	if !includeAcknowledged {
		query += ` WHERE acknowledged = 0`
	}
	query += ` ORDER BY when_at ASC LIMIT ?`

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// Due returns all unacknowledged reminders whose fire time has passed
func (s *ReminderService) Due(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		reminderSelect+` WHERE acknowledged = 0 AND when_at <= ? ORDER BY when_at ASC`,
		formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// PendingDispatch returns due reminders not yet handed to the notification
// sink
func (s *ReminderService) PendingDispatch(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		reminderSelect+` WHERE acknowledged = 0 AND dispatched = 0 AND when_at <= ? ORDER BY when_at ASC`,
		formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkDispatched records that a reminder was handed to the sink
func (s *ReminderService) MarkDispatched(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET dispatched = 1 WHERE id = ?`, id)
	return err
}

// Acknowledge marks a reminder as seen. Idempotent: acknowledging an already
// acknowledged reminder returns it unchanged.
func (s *ReminderService) Acknowledge(ctx context.Context, id string) (*models.Reminder, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.Acknowledged {
		return r, nil
	}

	r.Acknowledge()
	_, err = s.db.ExecContext(ctx,
		`UPDATE reminders SET acknowledged = 1, updated_at = ? WHERE id = ?`,
		formatTime(r.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge reminder: %w", err)
	}
	return r, nil
}

// Snooze postpones a reminder and re-opens it for dispatch
func (s *ReminderService) Snooze(ctx context.Context, id string, duration time.Duration) (*models.Reminder, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.Snooze(duration); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE reminders SET when_at = ?, acknowledged = 0, dispatched = 0, updated_at = ? WHERE id = ?`,
		formatTime(r.When), formatTime(r.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to snooze reminder: %w", err)
	}
	return r, nil
}

// Upcoming returns unacknowledged reminders firing within the window,
// for the daily digest
func (s *ReminderService) Upcoming(ctx context.Context, from time.Time, window time.Duration) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		reminderSelect+` WHERE acknowledged = 0 AND when_at > ? AND when_at <= ? ORDER BY when_at ASC`,
		formatTime(from), formatTime(from.Add(window)))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// DeleteAcknowledgedBefore purges acknowledged reminders older than cutoff.
// Used by the retention job; live reminders are never deleted.
func (s *ReminderService) DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE acknowledged = 1 AND updated_at < ?`,
		formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to purge reminders: %w", err)
	}
	return result.RowsAffected()
}

const reminderSelect = `
	SELECT id, when_at, message, priority, acknowledged,
	       commitment_when, commitment_who, commitment_what, commitment_where,
	       created_at, updated_at
	FROM reminders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*models.Reminder, error) {
	var r models.Reminder
	var whenAt, commitmentWhen, createdAt, updatedAt string
	var acknowledged int
	var priority string

	err := row.Scan(&r.ID, &whenAt, &r.Message, &priority, &acknowledged,
		&commitmentWhen, &r.Commitment.Who, &r.Commitment.What, &r.Commitment.Where,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	r.Priority = models.Priority(priority)
	r.Acknowledged = acknowledged != 0
	if r.When, err = parseTime(whenAt); err != nil {
		return nil, fmt.Errorf("corrupt when_at for reminder %s: %w", r.ID, err)
	}
	if r.Commitment.When, err = parseTime(commitmentWhen); err != nil {
		return nil, fmt.Errorf("corrupt commitment_when for reminder %s: %w", r.ID, err)
	}
	r.CreatedAt, _ = parseTime(createdAt)
	r.UpdatedAt, _ = parseTime(updatedAt)

	return &r, nil
}

func scanReminders(rows *sql.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// Fixed-width fraction keeps lexicographic order equal to chronological
// order for the when_at comparisons in SQL.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
