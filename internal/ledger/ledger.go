// Package ledger records and retracts payments for bill periods.
//
// The ledger is append/delete only: a payment entry asserts that one period
// of a bill is paid, and unmarking a period deletes the entry. Store errors
// are returned to the caller unchanged and never retried.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// Store is the subset of storage the ledger needs.
type Store interface {
	GetBill(ctx context.Context, ownerID, billID string) (*models.Bill, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	DeletePayment(ctx context.Context, ownerID, paymentID string) error
	ListPayments(ctx context.Context, ownerID, billID string) ([]*models.Payment, error)
	ListPaymentHistory(ctx context.Context, ownerID string) ([]*models.PaymentWithBill, error)
}

// Target selects which month TogglePaid acts on.
type Target int

const (
	// TargetEffective toggles the cycle shown as the bill's effective due date.
	TargetEffective Target = iota
	// TargetCurrent toggles the calendar month containing now.
	TargetCurrent
)

// Ledger performs payment operations against a store.
type Ledger struct {
	store Store
	now   func() time.Time
}

// New creates a ledger backed by store.
func New(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// RecordParams describes a payment to record.
type RecordParams struct {
	BillID  string
	OwnerID string
	Amount  decimal.Decimal

	// PeriodKey is any date inside the month being paid. When nil the month
	// following the bill's effective due date is used; callers should pass it
	// explicitly.
	PeriodKey *time.Time

	Notes string
}

// RecordPayment appends a ledger entry for one period of a bill.
// It does not check for an existing entry in the same period.
func (l *Ledger) RecordPayment(ctx context.Context, params RecordParams) (*models.Payment, error) {
	if err := calculator.ValidateAmount(params.Amount); err != nil {
		return nil, err
	}

	bill, err := l.store.GetBill(ctx, params.OwnerID, params.BillID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	var month time.Time
	if params.PeriodKey != nil {
		month = models.MonthStart(*params.PeriodKey)
	} else {
		status, err := l.status(ctx, bill, now)
		if err != nil {
			return nil, err
		}
		month = models.MonthStart(status.EffectiveDueDate).AddDate(0, 1, 0)
	}

	return l.record(ctx, bill, params.Amount, month, params.Notes, now)
}

// DeletePayment removes a ledger entry. An entry that is already gone
// counts as deleted.
func (l *Ledger) DeletePayment(ctx context.Context, ownerID, paymentID string) error {
	err := l.store.DeletePayment(ctx, ownerID, paymentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// ListPayments returns a bill's ledger entries, newest period first.
func (l *Ledger) ListPayments(ctx context.Context, ownerID, billID string) ([]*models.Payment, error) {
	return l.store.ListPayments(ctx, ownerID, billID)
}

// History returns every payment of the owner together with its bill.
func (l *Ledger) History(ctx context.Context, ownerID string) ([]*models.PaymentWithBill, error) {
	return l.store.ListPaymentHistory(ctx, ownerID)
}

// Status derives the current status of one bill from its ledger.
func (l *Ledger) Status(ctx context.Context, ownerID, billID string) (*models.Bill, calculator.Status, error) {
	bill, err := l.store.GetBill(ctx, ownerID, billID)
	if err != nil {
		return nil, calculator.Status{}, err
	}
	status, err := l.status(ctx, bill, l.now())
	if err != nil {
		return nil, calculator.Status{}, err
	}
	return bill, status, nil
}

// ToggleResult reports the outcome of TogglePaid.
type ToggleResult struct {
	// Paid is the new state of the toggled month.
	Paid bool

	// Month is the period key that was toggled.
	Month time.Time

	// Payment is the recorded entry when Paid is true, or the newest deleted
	// one.
	Payment *models.Payment

	// Removed counts the entries deleted when Paid is false.
	Removed int
}

// TogglePaid flips the paid state of one month of a bill. When the period
// containing the month has entries, all of them are deleted so the period
// reads as unpaid; otherwise the bill's amount is recorded.
//
// For TargetEffective the month is the one containing the effective due
// date, except when the current period is already paid: the effective date
// then belongs to the next cycle and the toggle unmarks the current one.
//
// The read and the write are not atomic. Concurrent toggles resolve as last
// write wins; callers re-fetch status afterwards.
func (l *Ledger) TogglePaid(ctx context.Context, ownerID, billID string, target Target) (*ToggleResult, error) {
	bill, err := l.store.GetBill(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}
	payments, err := l.store.ListPayments(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	month := models.MonthStart(now)
	if target == TargetEffective {
		status, err := calculator.CalculateStatus(bill, payments, now)
		if err != nil {
			return nil, err
		}
		if !status.CurrentPeriodPaid {
			month = models.MonthStart(status.EffectiveDueDate)
		}
	}

	if existing := inPeriod(bill, payments, month); len(existing) > 0 {
		for _, p := range existing {
			if err := l.DeletePayment(ctx, ownerID, p.ID); err != nil {
				return nil, err
			}
		}
		return &ToggleResult{Paid: false, Month: month, Payment: existing[0], Removed: len(existing)}, nil
	}

	payment, err := l.record(ctx, bill, bill.Amount, month, "", now)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Paid: true, Month: month, Payment: payment}, nil
}

func (l *Ledger) record(ctx context.Context, bill *models.Bill, amount decimal.Decimal, month time.Time, notes string, now time.Time) (*models.Payment, error) {
	payment := &models.Payment{
		BillID:       bill.ID,
		OwnerID:      bill.OwnerID,
		PaymentDate:  now.Unix(),
		Amount:       amount,
		Currency:     bill.Currency,
		PaymentMonth: month,
		Notes:        notes,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}
	if err := l.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (l *Ledger) status(ctx context.Context, bill *models.Bill, now time.Time) (calculator.Status, error) {
	payments, err := l.store.ListPayments(ctx, bill.OwnerID, bill.ID)
	if err != nil {
		return calculator.Status{}, err
	}
	status, err := calculator.CalculateStatus(bill, payments, now)
	if err != nil {
		return calculator.Status{}, fmt.Errorf("failed to calculate status: %w", err)
	}
	return status, nil
}

// inPeriod returns the entries whose period, under the bill's recurrence,
// contains month. The newest entry comes first.
func inPeriod(bill *models.Bill, payments []*models.Payment, month time.Time) []*models.Payment {
	cycle, err := calculator.ParseRecurrence(bill.Recurrence)
	if err != nil {
		return nil
	}
	want := cycle.PeriodOf(month)
	var found []*models.Payment
	for _, p := range payments {
		if cycle.PeriodOf(p.PaymentMonth) != want {
			continue
		}
		if len(found) > 0 && p.PaymentMonth.After(found[0].PaymentMonth) {
			found = append([]*models.Payment{p}, found...)
			continue
		}
		found = append(found, p)
	}
	return found
}
