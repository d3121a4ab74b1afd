package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const paymentColumns = `p.id, p.bill_id, p.owner_id, p.payment_date, p.amount, p.currency,
	p.payment_month, p.notes, p.created_at, p.updated_at`

// CreatePayment appends a ledger entry for one of the owner's bills.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := s.checkOwner(ctx, "bills", payment.BillID, payment.OwnerID); err != nil {
		return storage.Wrap("insert payment", err)
	}

	now := time.Now().Unix()
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaymentDate == 0 {
		payment.PaymentDate = now
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = payment.CreatedAt
	payment.PaymentMonth = models.MonthStart(payment.PaymentMonth)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_payments (id, bill_id, owner_id, payment_date, amount, currency,
			payment_month, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.BillID, payment.OwnerID, payment.PaymentDate,
		payment.Amount.String(), payment.Currency, models.FormatDate(payment.PaymentMonth),
		payment.Notes, payment.CreatedAt, payment.UpdatedAt,
	)
	return storage.Wrap("insert payment", err)
}

// DeletePayment removes a ledger entry.
func (s *SQLiteStore) DeletePayment(ctx context.Context, ownerID, paymentID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM bill_payments WHERE id = ? AND owner_id = ?", paymentID, ownerID)
	if err != nil {
		return storage.Wrap("delete payment", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.Wrap("delete payment", s.missing(ctx, "bill_payments", paymentID, ownerID))
	}
	return nil
}

// ListPayments returns a bill's ledger, newest payment month first.
func (s *SQLiteStore) ListPayments(ctx context.Context, ownerID, billID string) ([]*models.Payment, error) {
	if err := s.checkOwner(ctx, "bills", billID, ownerID); err != nil {
		return nil, storage.Wrap("list payments", err)
	}
	return s.queryPayments(ctx, "list payments",
		`SELECT `+paymentColumns+` FROM bill_payments p
		 WHERE p.bill_id = ? AND p.owner_id = ?
		 ORDER BY p.payment_month DESC, p.created_at DESC`,
		billID, ownerID,
	)
}

// ListOwnerPayments returns every ledger entry of the owner.
func (s *SQLiteStore) ListOwnerPayments(ctx context.Context, ownerID string) ([]*models.Payment, error) {
	return s.queryPayments(ctx, "list owner payments",
		`SELECT `+paymentColumns+` FROM bill_payments p
		 WHERE p.owner_id = ?
		 ORDER BY p.payment_month DESC, p.created_at DESC`,
		ownerID,
	)
}

// ListPaymentHistory returns the owner's ledger joined with bill names,
// most recently recorded first.
func (s *SQLiteStore) ListPaymentHistory(ctx context.Context, ownerID string) ([]*models.PaymentWithBill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+`, b.name, COALESCE(b.category_id, '')
		 FROM bill_payments p
		 JOIN bills b ON b.id = p.bill_id
		 WHERE p.owner_id = ?
		 ORDER BY p.payment_date DESC, p.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list payment history", err)
	}
	defer rows.Close()

	var history []*models.PaymentWithBill
	for rows.Next() {
		entry := &models.PaymentWithBill{}
		var amount, month string
		p := &entry.Payment
		if err := rows.Scan(
			&p.ID, &p.BillID, &p.OwnerID, &p.PaymentDate, &amount, &p.Currency,
			&month, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
			&entry.BillName, &entry.CategoryID,
		); err != nil {
			return nil, storage.Wrap("scan payment", err)
		}
		if err := fillPayment(p, amount, month); err != nil {
			return nil, storage.Wrap("scan payment", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate payments", err)
	}

	return history, nil
}

func (s *SQLiteStore) queryPayments(ctx context.Context, op, query string, args ...any) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var amount, month string
		if err := rows.Scan(
			&p.ID, &p.BillID, &p.OwnerID, &p.PaymentDate, &amount, &p.Currency,
			&month, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, storage.Wrap("scan payment", err)
		}
		if err := fillPayment(p, amount, month); err != nil {
			return nil, storage.Wrap("scan payment", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, err)
	}

	return payments, nil
}

func fillPayment(p *models.Payment, amount, month string) error {
	var err error
	if p.Amount, err = parseAmount(amount); err != nil {
		return err
	}
	if p.PaymentMonth, err = models.ParseDate(month); err != nil {
		return fmt.Errorf("payment %s: %w", p.ID, err)
	}
	return nil
}

// parseAmount reads a decimal stored as TEXT.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, err)
	}
	return d, nil
}
