package calculator

import (
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

// Status is the derived, never persisted, payment status of a bill.
type Status struct {
	// EffectiveDueDate is the due date of the earliest cycle not yet paid
	// (for recurring bills), or the bill's due date (for one-time bills).
	EffectiveDueDate time.Time

	// CurrentPeriodPaid reports whether the period containing "now" is paid.
	// Clients show it as "paid this month" and label the effective date as
	// belonging to the next cycle.
	CurrentPeriodPaid bool

	// CyclePaid reports whether the period containing EffectiveDueDate is paid.
	CyclePaid bool

	// IsOverdue is true when the effective cycle is unpaid and its due date
	// is strictly in the past.
	IsOverdue bool

	// DaysUntilDue is the number of calendar days from today to
	// EffectiveDueDate. Negative when the date has passed, 1 for tomorrow.
	DaysUntilDue int
}

// BillWithStatus attaches a derived status to a bill for display.
type BillWithStatus struct {
	Bill   *models.Bill
	Status Status
}

// CalculateStatus derives the status of bill from its payment history.
//
// Algorithm for recurring bills (monthly, quarterly, yearly):
//   - No payments at all: the original due date, even when it has passed,
//     so an untouched bill surfaces as overdue instead of silently rolling.
//   - Otherwise: if the period containing now is paid, the next period's due
//     date; if not, the current period's due date. A projected date never
//     precedes the bill's original cycle.
//
// One-time bills keep their due date and are paid once any payment exists.
// Only exact period matches count as paid; a payment for an earlier period
// never marks a later cycle paid.
func CalculateStatus(bill *models.Bill, payments []*models.Payment, now time.Time) (Status, error) {
	if bill.DueDate.IsZero() {
		return Status{}, &ValidationError{Field: "due_date", Reason: "due date is required"}
	}
	cycle, err := ParseRecurrence(bill.Recurrence)
	if err != nil {
		return Status{}, err
	}

	today := models.Date(now)
	anchor := models.Date(bill.DueDate)
	months := paymentMonths(bill.ID, payments)

	var due time.Time
	var currentPaid, cyclePaid bool

	switch c := cycle.(type) {
	case OneTime:
		due = anchor
		currentPaid = len(months) > 0
		cyclePaid = currentPaid
	case Monthly, Quarterly, Yearly:
		due, currentPaid = recurringDueDate(c, anchor, months, today)
		cyclePaid = paidIn(c, months, c.PeriodOf(due))
	}

	days := daysBetween(today, due)
	return Status{
		EffectiveDueDate:  due,
		CurrentPeriodPaid: currentPaid,
		CyclePaid:         cyclePaid,
		IsOverdue:         !cyclePaid && days < 0,
		DaysUntilDue:      days,
	}, nil
}

// CalculateAll derives the status of every bill. paymentsByBill maps bill
// IDs to their payment history; bills without an entry have no payments.
func CalculateAll(bills []*models.Bill, paymentsByBill map[string][]*models.Payment, now time.Time) ([]BillWithStatus, error) {
	result := make([]BillWithStatus, 0, len(bills))
	for _, bill := range bills {
		status, err := CalculateStatus(bill, paymentsByBill[bill.ID], now)
		if err != nil {
			return nil, err
		}
		result = append(result, BillWithStatus{Bill: bill, Status: status})
	}
	return result, nil
}

func recurringDueDate(c Cycle, anchor time.Time, months []time.Time, today time.Time) (time.Time, bool) {
	if len(months) == 0 {
		return anchor, false
	}

	current := c.PeriodOf(today)
	paid := paidIn(c, months, current)
	target := current
	if paid {
		target = c.Next(current)
	}
	if target.Before(c.PeriodOf(anchor)) {
		return anchor, paid
	}
	return c.DueIn(anchor, target), paid
}

// paidIn reports whether any payment month falls in period p of cycle c.
func paidIn(c Cycle, months []time.Time, p Period) bool {
	for _, m := range months {
		if c.PeriodOf(m) == p {
			return true
		}
	}
	return false
}

// paymentMonths extracts the period keys of the payments belonging to billID.
// Payments with an empty BillID are assumed to belong to the bill.
func paymentMonths(billID string, payments []*models.Payment) []time.Time {
	months := make([]time.Time, 0, len(payments))
	for _, p := range payments {
		if p == nil || (p.BillID != "" && billID != "" && p.BillID != billID) {
			continue
		}
		months = append(months, models.Date(p.PaymentMonth))
	}
	return months
}

// daysBetween returns the calendar-day distance between two midnight-UTC dates.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
