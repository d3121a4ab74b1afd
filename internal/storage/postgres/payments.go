package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const paymentColumns = `p.id, p.bill_id, p.owner_id, p.payment_date, p.amount::text, p.currency,
	p.payment_month, p.notes, p.created_at, p.updated_at`

// CreatePayment appends a ledger entry for one of the owner's bills.
func (s *PostgresStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
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

	_, err := s.pool.Exec(ctx,
		`INSERT INTO bill_payments (id, bill_id, owner_id, payment_date, amount, currency,
			payment_month, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)`,
		payment.ID, payment.BillID, payment.OwnerID, payment.PaymentDate,
		payment.Amount.String(), payment.Currency, payment.PaymentMonth,
		payment.Notes, payment.CreatedAt, payment.UpdatedAt,
	)
	return storage.Wrap("insert payment", err)
}

// DeletePayment removes a ledger entry.
func (s *PostgresStore) DeletePayment(ctx context.Context, ownerID, paymentID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM bill_payments WHERE id = $1 AND owner_id = $2", paymentID, ownerID)
	if err != nil {
		return storage.Wrap("delete payment", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("delete payment", s.missing(ctx, "bill_payments", paymentID, ownerID))
	}
	return nil
}

// ListPayments returns a bill's ledger, newest payment month first.
func (s *PostgresStore) ListPayments(ctx context.Context, ownerID, billID string) ([]*models.Payment, error) {
	if err := s.checkOwner(ctx, "bills", billID, ownerID); err != nil {
		return nil, storage.Wrap("list payments", err)
	}
	return s.queryPayments(ctx, "list payments",
		`SELECT `+paymentColumns+` FROM bill_payments p
		 WHERE p.bill_id = $1 AND p.owner_id = $2
		 ORDER BY p.payment_month DESC, p.created_at DESC`,
		billID, ownerID,
	)
}

// ListOwnerPayments returns every ledger entry of the owner.
func (s *PostgresStore) ListOwnerPayments(ctx context.Context, ownerID string) ([]*models.Payment, error) {
	return s.queryPayments(ctx, "list owner payments",
		`SELECT `+paymentColumns+` FROM bill_payments p
		 WHERE p.owner_id = $1
		 ORDER BY p.payment_month DESC, p.created_at DESC`,
		ownerID,
	)
}

// ListPaymentHistory returns the owner's ledger joined with bill names.
func (s *PostgresStore) ListPaymentHistory(ctx context.Context, ownerID string) ([]*models.PaymentWithBill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+`, b.name, COALESCE(b.category_id, '')
		 FROM bill_payments p
		 JOIN bills b ON b.id = p.bill_id
		 WHERE p.owner_id = $1
		 ORDER BY p.payment_date DESC, p.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list payment history", err)
	}

	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.PaymentWithBill, error) {
		entry := &models.PaymentWithBill{}
		err := scanPayment(row, &entry.Payment, &entry.BillName, &entry.CategoryID)
		return entry, err
	})
	if err != nil {
		return nil, storage.Wrap("scan payment history", err)
	}
	return history, nil
}

func (s *PostgresStore) queryPayments(ctx context.Context, op, query string, args ...any) ([]*models.Payment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Payment, error) {
		p := &models.Payment{}
		err := scanPayment(row, p)
		return p, err
	})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return payments, nil
}

// scanPayment scans the payment columns followed by any extra destinations.
func scanPayment(row pgx.Row, p *models.Payment, extra ...any) error {
	var amount string
	var month time.Time
	dest := append([]any{
		&p.ID, &p.BillID, &p.OwnerID, &p.PaymentDate, &amount, &p.Currency,
		&month, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	p.Amount = d
	p.PaymentMonth = models.Date(month)
	return nil
}
