package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const notificationColumns = `id, owner_id, bill_id, kind, title, body, fire_at, delivered_at`

// SaveNotifications inserts notifications, replacing any with the same key.
// The conflict target includes the owner and bill, so a row is never handed
// over to another owner or bill.
func (s *SQLiteStore) SaveNotifications(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Wrap("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notifications (owner_id, bill_key, id, bill_id, kind, title, body, fire_at, delivered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
		 ON CONFLICT (owner_id, bill_key, id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			body = excluded.body,
			fire_at = excluded.fire_at,
			delivered_at = NULL`)
	if err != nil {
		return storage.Wrap("prepare notification insert", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		if _, err := stmt.ExecContext(ctx,
			n.OwnerID, n.BillID, n.ID, nullString(n.BillID), string(n.Kind), n.Title, n.Body, n.FireAt.Unix(),
		); err != nil {
			return storage.Wrap("insert notification", err)
		}
	}

	return storage.Wrap("commit notifications", tx.Commit())
}

// DeleteNotifications removes notifications with the given IDs from one of
// the owner's bills.
func (s *SQLiteStore) DeleteNotifications(ctx context.Context, ownerID, billID string, ids []int32) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+2)
	args = append(args, ownerID, billID)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE owner_id = ? AND bill_key = ? AND id IN ("+placeholders(len(ids))+")",
		args...,
	)
	return storage.Wrap("delete notifications", err)
}

// DeleteBillNotifications removes every pending notification of a bill.
func (s *SQLiteStore) DeleteBillNotifications(ctx context.Context, ownerID, billID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE owner_id = ? AND bill_id = ? AND delivered_at IS NULL",
		ownerID, billID,
	)
	return storage.Wrap("delete bill notifications", err)
}

// ListPendingNotifications returns the owner's undelivered notifications.
func (s *SQLiteStore) ListPendingNotifications(ctx context.Context, ownerID string) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, "list pending notifications",
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE owner_id = ? AND delivered_at IS NULL
		 ORDER BY fire_at, bill_key, id`,
		ownerID,
	)
}

// ListDueNotifications returns undelivered notifications of any owner that
// should have fired by now.
func (s *SQLiteStore) ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, "list due notifications",
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE delivered_at IS NULL AND fire_at <= ?
		 ORDER BY fire_at, id
		 LIMIT ?`,
		now.Unix(), limit,
	)
}

// MarkDelivered stamps notifications as delivered.
func (s *SQLiteStore) MarkDelivered(ctx context.Context, keys []models.NotificationKey, at time.Time) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Wrap("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE notifications SET delivered_at = ? WHERE owner_id = ? AND bill_key = ? AND id = ?")
	if err != nil {
		return storage.Wrap("prepare mark delivered", err)
	}
	defer stmt.Close()

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, at.Unix(), k.OwnerID, k.BillID, k.ID); err != nil {
			return storage.Wrap("mark notification delivered", err)
		}
	}

	return storage.Wrap("commit delivered notifications", tx.Commit())
}

func (s *SQLiteStore) queryNotifications(ctx context.Context, op, query string, args ...any) ([]*models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var billID sql.NullString
		var kind string
		var fireAt int64
		var deliveredAt sql.NullInt64
		if err := rows.Scan(&n.ID, &n.OwnerID, &billID, &kind, &n.Title, &n.Body, &fireAt, &deliveredAt); err != nil {
			return nil, storage.Wrap("scan notification", err)
		}
		n.BillID = billID.String
		n.Kind = models.NotificationKind(kind)
		n.FireAt = time.Unix(fireAt, 0).UTC()
		if deliveredAt.Valid {
			n.DeliveredAt = time.Unix(deliveredAt.Int64, 0).UTC()
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, err)
	}

	return notifications, nil
}
