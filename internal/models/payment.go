package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a ledger entry recording that one period of a bill was paid.
// Entries are immutable; unmarking a period deletes the entry.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// BillID is the bill this payment belongs to.
	BillID string

	// OwnerID is the user who recorded the payment.
	OwnerID string

	// PaymentDate is the Unix timestamp when the payment was recorded.
	PaymentDate int64

	// Amount is the amount paid.
	Amount decimal.Decimal

	// Currency is the ISO 4217 code of Amount.
	Currency string

	// PaymentMonth is the period key: the first day of the calendar month
	// the payment is for. Quarterly and yearly bills match on the quarter or
	// year containing this month.
	PaymentMonth time.Time

	// Notes is optional free text.
	Notes string

	// CreatedAt is the Unix timestamp when the entry was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// PaymentWithBill is a payment joined with the bill fields the history view shows.
type PaymentWithBill struct {
	Payment
	BillName   string
	CategoryID string
}
