package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// UpsertReminder creates or replaces the reminder of one of the owner's bills.
func (s *PostgresStore) UpsertReminder(ctx context.Context, ownerID string, reminder *models.Reminder) error {
	if err := s.checkOwner(ctx, "bills", reminder.BillID, ownerID); err != nil {
		return storage.Wrap("upsert reminder", err)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO bill_reminders (bill_id, owner_id, notify_before_days, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (bill_id) DO UPDATE SET
			notify_before_days = EXCLUDED.notify_before_days,
			updated_at = EXCLUDED.updated_at`,
		reminder.BillID, ownerID, reminder.NotifyBeforeDays, time.Now().Unix(),
	)
	return storage.Wrap("upsert reminder", err)
}

// GetReminder returns the reminder of a bill.
func (s *PostgresStore) GetReminder(ctx context.Context, ownerID, billID string) (*models.Reminder, error) {
	r := &models.Reminder{BillID: billID}
	err := s.pool.QueryRow(ctx,
		"SELECT notify_before_days FROM bill_reminders WHERE bill_id = $1 AND owner_id = $2",
		billID, ownerID,
	).Scan(&r.NotifyBeforeDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.Wrap("get reminder", s.missing(ctx, "bills", billID, ownerID))
	}
	if err != nil {
		return nil, storage.Wrap("get reminder", err)
	}
	return r, nil
}

// ListReminders returns the reminders of all of the owner's bills.
func (s *PostgresStore) ListReminders(ctx context.Context, ownerID string) ([]*models.Reminder, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT bill_id, notify_before_days FROM bill_reminders WHERE owner_id = $1 ORDER BY bill_id",
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list reminders", err)
	}

	reminders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Reminder, error) {
		r := &models.Reminder{}
		err := row.Scan(&r.BillID, &r.NotifyBeforeDays)
		return r, err
	})
	if err != nil {
		return nil, storage.Wrap("scan reminders", err)
	}
	return reminders, nil
}
