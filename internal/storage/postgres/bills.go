package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const billColumns = `id, owner_id, name, COALESCE(category_id, ''), amount::text, currency,
	due_date, recurrence, notes, created_at, updated_at`

// CreateBill persists a new bill.
func (s *PostgresStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = bill.CreatedAt
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO bills (id, owner_id, name, category_id, amount, currency, due_date,
			recurrence, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11)`,
		bill.ID, bill.OwnerID, bill.Name, nullIfEmpty(bill.CategoryID),
		bill.Amount.String(), bill.Currency, models.Date(bill.DueDate),
		string(bill.Recurrence), bill.Notes, bill.CreatedAt, bill.UpdatedAt,
	)
	return storage.Wrap("insert bill", err)
}

// GetBill retrieves one of the owner's bills.
func (s *PostgresStore) GetBill(ctx context.Context, ownerID, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.pool.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1 AND owner_id = $2`,
		billID, ownerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.Wrap("get bill", s.missing(ctx, "bills", billID, ownerID))
	}
	if err != nil {
		return nil, storage.Wrap("get bill", err)
	}
	return bill, nil
}

// UpdateBill saves the editable fields of a bill.
func (s *PostgresStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = time.Now().Unix()
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE bills SET name = $1, category_id = $2, amount = $3::numeric, currency = $4,
			due_date = $5, recurrence = $6, notes = $7, updated_at = $8
		 WHERE id = $9 AND owner_id = $10`,
		bill.Name, nullIfEmpty(bill.CategoryID), bill.Amount.String(), bill.Currency,
		models.Date(bill.DueDate), string(bill.Recurrence), bill.Notes, bill.UpdatedAt,
		bill.ID, bill.OwnerID,
	)
	if err != nil {
		return storage.Wrap("update bill", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("update bill", s.missing(ctx, "bills", bill.ID, bill.OwnerID))
	}
	return nil
}

// DeleteBill removes a bill; dependent rows cascade.
func (s *PostgresStore) DeleteBill(ctx context.Context, ownerID, billID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM bills WHERE id = $1 AND owner_id = $2", billID, ownerID)
	if err != nil {
		return storage.Wrap("delete bill", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("delete bill", s.missing(ctx, "bills", billID, ownerID))
	}
	return nil
}

// ListBills returns the owner's bills ordered by original due date.
func (s *PostgresStore) ListBills(ctx context.Context, ownerID string) ([]*models.Bill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+billColumns+` FROM bills WHERE owner_id = $1 ORDER BY due_date, name`,
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list bills", err)
	}

	bills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Bill, error) {
		return scanBill(row)
	})
	if err != nil {
		return nil, storage.Wrap("scan bills", err)
	}
	return bills, nil
}

func scanBill(row pgx.Row) (*models.Bill, error) {
	bill := &models.Bill{}
	var amount, recurrence string
	var due time.Time

	if err := row.Scan(
		&bill.ID, &bill.OwnerID, &bill.Name, &bill.CategoryID, &amount, &bill.Currency,
		&due, &recurrence, &bill.Notes, &bill.CreatedAt, &bill.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	bill.Amount = d
	bill.DueDate = models.Date(due)
	bill.Recurrence = models.Recurrence(recurrence)
	return bill, nil
}
