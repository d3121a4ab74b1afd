package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// UpsertReminder creates or replaces the reminder of one of the owner's bills.
func (s *SQLiteStore) UpsertReminder(ctx context.Context, ownerID string, reminder *models.Reminder) error {
	if err := s.checkOwner(ctx, "bills", reminder.BillID, ownerID); err != nil {
		return storage.Wrap("upsert reminder", err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_reminders (bill_id, owner_id, notify_before_days, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (bill_id) DO UPDATE SET
			notify_before_days = excluded.notify_before_days,
			updated_at = excluded.updated_at`,
		reminder.BillID, ownerID, reminder.NotifyBeforeDays, time.Now().Unix(),
	)
	return storage.Wrap("upsert reminder", err)
}

// GetReminder returns the reminder of a bill.
func (s *SQLiteStore) GetReminder(ctx context.Context, ownerID, billID string) (*models.Reminder, error) {
	r := &models.Reminder{BillID: billID}
	err := s.db.QueryRowContext(ctx,
		"SELECT notify_before_days FROM bill_reminders WHERE bill_id = ? AND owner_id = ?",
		billID, ownerID,
	).Scan(&r.NotifyBeforeDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.Wrap("get reminder", s.missing(ctx, "bills", billID, ownerID))
	}
	if err != nil {
		return nil, storage.Wrap("get reminder", err)
	}
	return r, nil
}

// ListReminders returns the reminders of all of the owner's bills.
func (s *SQLiteStore) ListReminders(ctx context.Context, ownerID string) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT bill_id, notify_before_days FROM bill_reminders WHERE owner_id = ? ORDER BY bill_id",
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list reminders", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		r := &models.Reminder{}
		if err := rows.Scan(&r.BillID, &r.NotifyBeforeDays); err != nil {
			return nil, storage.Wrap("scan reminder", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate reminders", err)
	}

	return reminders, nil
}
