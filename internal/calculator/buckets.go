package calculator

import (
	"sort"
)

// Buckets groups bills by urgency for the dashboard.
// A bill appears in at most one bucket; bills due later than 15 days
// (or paid for the current cycle) are omitted.
type Buckets struct {
	Overdue        []BillWithStatus
	DueToday       []BillWithStatus
	DueTomorrow    []BillWithStatus
	DueWithin7Days []BillWithStatus
	DueNext15Days  []BillWithStatus
}

// Categorize sorts bills into dashboard buckets by DaysUntilDue.
//
// Algorithm:
// - Overdue: unpaid and past due
// - DueToday: 0 days, DueTomorrow: 1 day
// - DueWithin7Days: 2..7 days, DueNext15Days: 8..15 days
// - Bills whose effective cycle is already paid are skipped
func Categorize(bills []BillWithStatus) Buckets {
	var b Buckets
	for _, bws := range bills {
		s := bws.Status
		if s.IsOverdue {
			b.Overdue = append(b.Overdue, bws)
			continue
		}
		if s.CyclePaid {
			continue
		}
		switch d := s.DaysUntilDue; {
		case d == 0:
			b.DueToday = append(b.DueToday, bws)
		case d == 1:
			b.DueTomorrow = append(b.DueTomorrow, bws)
		case d >= 2 && d <= 7:
			b.DueWithin7Days = append(b.DueWithin7Days, bws)
		case d >= 8 && d <= 15:
			b.DueNext15Days = append(b.DueNext15Days, bws)
		}
	}
	return b
}

// SortByEffectiveDueDate orders bills by effective due date, earliest first.
// Ties keep their input order.
func SortByEffectiveDueDate(bills []BillWithStatus) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Status.EffectiveDueDate.Before(bills[j].Status.EffectiveDueDate)
	})
}

// Pending returns the bills whose current cycle has not been paid yet.
func Pending(bills []BillWithStatus) []BillWithStatus {
	var pending []BillWithStatus
	for _, bws := range bills {
		if !bws.Status.CurrentPeriodPaid && !bws.Status.CyclePaid {
			pending = append(pending, bws)
		}
	}
	return pending
}
