package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/currency"
	"github.com/mmynk/billtracker/internal/models"
)

// ValidationError reports malformed input that is rejected before any
// computation takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateBill checks the fields the calculator and the ledger depend on.
// It normalizes the currency code in place.
func ValidateBill(bill *models.Bill) error {
	if strings.TrimSpace(bill.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if bill.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "due date is required"}
	}
	if _, err := ParseRecurrence(bill.Recurrence); err != nil {
		return err
	}
	if err := ValidateAmount(bill.Amount); err != nil {
		return err
	}
	code, err := currency.Normalize(bill.Currency)
	if err != nil {
		return &ValidationError{Field: "currency", Reason: err.Error()}
	}
	bill.Currency = code
	return nil
}

// ValidateAmount rejects negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "amount must not be negative"}
	}
	return nil
}

// ValidateNotifyBeforeDays checks the reminder window.
func ValidateNotifyBeforeDays(days int) error {
	if days < 0 || days > models.MaxNotifyBeforeDays {
		return &ValidationError{
			Field:  "notify_before_days",
			Reason: fmt.Sprintf("must be between 0 and %d", models.MaxNotifyBeforeDays),
		}
	}
	return nil
}
