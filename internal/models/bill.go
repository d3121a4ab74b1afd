package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurrence is the stored recurrence rule of a bill.
// The calculator package turns it into a closed set of cycle types.
type Recurrence string

const (
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
	RecurrenceNone      Recurrence = "none"
)

// Bill represents an obligation the owner has to pay, once or on a schedule.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// OwnerID is the user who owns the bill. Every query is scoped by it.
	OwnerID string

	// Name is the human-readable name (e.g., "Rent", "Netflix").
	Name string

	// CategoryID references one of the owner's categories. May be empty.
	CategoryID string

	// Amount is the amount due per cycle.
	Amount decimal.Decimal

	// Currency is the ISO 4217 code of Amount.
	Currency string

	// DueDate is the original anchor date.
	// For recurring bills it fixes the day of month of every future cycle.
	DueDate time.Time

	// Recurrence is one of monthly, quarterly, yearly or none.
	Recurrence Recurrence

	// Notes is optional free text.
	Notes string

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}
