package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const billColumns = `id, owner_id, name, category_id, amount, currency, due_date,
	recurrence, notes, created_at, updated_at`

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = bill.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.OwnerID,
		bill.Name,
		nullString(bill.CategoryID),
		bill.Amount.String(),
		bill.Currency,
		models.FormatDate(bill.DueDate),
		string(bill.Recurrence),
		bill.Notes,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	return storage.Wrap("insert bill", err)
}

// GetBill retrieves one of the owner's bills.
func (s *SQLiteStore) GetBill(ctx context.Context, ownerID, billID string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = ? AND owner_id = ?`,
		billID, ownerID,
	)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.Wrap("get bill", s.missing(ctx, "bills", billID, ownerID))
	}
	if err != nil {
		return nil, storage.Wrap("get bill", err)
	}
	return bill, nil
}

// UpdateBill saves the editable fields of a bill.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = time.Now().Unix()
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE bills SET name = ?, category_id = ?, amount = ?, currency = ?,
			due_date = ?, recurrence = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		bill.Name,
		nullString(bill.CategoryID),
		bill.Amount.String(),
		bill.Currency,
		models.FormatDate(bill.DueDate),
		string(bill.Recurrence),
		bill.Notes,
		bill.UpdatedAt,
		bill.ID,
		bill.OwnerID,
	)
	if err != nil {
		return storage.Wrap("update bill", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.Wrap("update bill", s.missing(ctx, "bills", bill.ID, bill.OwnerID))
	}
	return nil
}

// DeleteBill removes a bill. Payments, the reminder and scheduled
// notifications are removed by the cascading foreign keys.
func (s *SQLiteStore) DeleteBill(ctx context.Context, ownerID, billID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM bills WHERE id = ? AND owner_id = ?", billID, ownerID)
	if err != nil {
		return storage.Wrap("delete bill", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.Wrap("delete bill", s.missing(ctx, "bills", billID, ownerID))
	}
	return nil
}

// ListBills returns the owner's bills ordered by original due date.
func (s *SQLiteStore) ListBills(ctx context.Context, ownerID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE owner_id = ? ORDER BY due_date, name`,
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list bills", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, storage.Wrap("scan bill", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate bills", err)
	}

	return bills, nil
}

func scanBill(row scanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var categoryID sql.NullString
	var amount, dueDate, recurrence string

	if err := row.Scan(
		&bill.ID,
		&bill.OwnerID,
		&bill.Name,
		&categoryID,
		&amount,
		&bill.Currency,
		&dueDate,
		&recurrence,
		&bill.Notes,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	); err != nil {
		return nil, err
	}

	bill.CategoryID = categoryID.String
	bill.Recurrence = models.Recurrence(recurrence)

	var err error
	if bill.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if bill.DueDate, err = models.ParseDate(dueDate); err != nil {
		return nil, fmt.Errorf("bill %s: %w", bill.ID, err)
	}
	return bill, nil
}
