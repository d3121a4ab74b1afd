package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const notificationColumns = `id, owner_id, COALESCE(bill_id, ''), kind, title, body, fire_at, delivered_at`

// SaveNotifications inserts notifications in one batch, replacing any with
// the same key. The conflict target includes the owner and bill, so a row is
// never handed over to another owner or bill.
func (s *PostgresStore) SaveNotifications(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, n := range notifications {
		batch.Queue(
			`INSERT INTO notifications (owner_id, bill_key, id, bill_id, kind, title, body, fire_at, delivered_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL)
			 ON CONFLICT (owner_id, bill_key, id) DO UPDATE SET
				kind = EXCLUDED.kind,
				title = EXCLUDED.title,
				body = EXCLUDED.body,
				fire_at = EXCLUDED.fire_at,
				delivered_at = NULL`,
			n.OwnerID, n.BillID, n.ID, nullIfEmpty(n.BillID), string(n.Kind), n.Title, n.Body, n.FireAt.Unix(),
		)
	}

	// Wrapped in a transaction so a failing row rolls back the whole batch.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.Wrap("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return storage.Wrap("insert notifications", err)
	}
	return storage.Wrap("commit notifications", tx.Commit(ctx))
}

// DeleteNotifications removes notifications with the given IDs from one of
// the owner's bills.
func (s *PostgresStore) DeleteNotifications(ctx context.Context, ownerID, billID string, ids []int32) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		"DELETE FROM notifications WHERE owner_id = $1 AND bill_key = $2 AND id = ANY($3)", ownerID, billID, ids)
	return storage.Wrap("delete notifications", err)
}

// DeleteBillNotifications removes every pending notification of a bill.
func (s *PostgresStore) DeleteBillNotifications(ctx context.Context, ownerID, billID string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM notifications WHERE owner_id = $1 AND bill_id = $2 AND delivered_at IS NULL",
		ownerID, billID,
	)
	return storage.Wrap("delete bill notifications", err)
}

// ListPendingNotifications returns the owner's undelivered notifications.
func (s *PostgresStore) ListPendingNotifications(ctx context.Context, ownerID string) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, "list pending notifications",
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE owner_id = $1 AND delivered_at IS NULL
		 ORDER BY fire_at, bill_key, id`,
		ownerID,
	)
}

// ListDueNotifications returns undelivered notifications of any owner that
// should have fired by now.
func (s *PostgresStore) ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, "list due notifications",
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE delivered_at IS NULL AND fire_at <= $1
		 ORDER BY fire_at, id
		 LIMIT $2`,
		now.Unix(), limit,
	)
}

// MarkDelivered stamps notifications as delivered.
func (s *PostgresStore) MarkDelivered(ctx context.Context, keys []models.NotificationKey, at time.Time) error {
	if len(keys) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(
			"UPDATE notifications SET delivered_at = $1 WHERE owner_id = $2 AND bill_key = $3 AND id = $4",
			at.Unix(), k.OwnerID, k.BillID, k.ID,
		)
	}
	return storage.Wrap("mark notifications delivered", s.pool.SendBatch(ctx, batch).Close())
}

func (s *PostgresStore) queryNotifications(ctx context.Context, op, query string, args ...any) ([]*models.Notification, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	notifications, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Notification, error) {
		n := &models.Notification{}
		var kind string
		var fireAt int64
		var deliveredAt *int64
		if err := row.Scan(&n.ID, &n.OwnerID, &n.BillID, &kind, &n.Title, &n.Body, &fireAt, &deliveredAt); err != nil {
			return nil, err
		}
		n.Kind = models.NotificationKind(kind)
		n.FireAt = time.Unix(fireAt, 0).UTC()
		if deliveredAt != nil {
			n.DeliveredAt = time.Unix(*deliveredAt, 0).UTC()
		}
		return n, nil
	})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return notifications, nil
}
