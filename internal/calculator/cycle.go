package calculator

import (
	"fmt"
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

// Period identifies one cycle of a recurrence.
// Index is the month (1..12) for monthly cycles, the quarter (0..3) for
// quarterly cycles and always 0 for yearly and one-time cycles.
type Period struct {
	Year  int
	Index int
}

// Before reports whether p is an earlier cycle than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Index < o.Index
}

// Cycle is the closed set of recurrence kinds: Monthly, Quarterly, Yearly
// and OneTime. Use ParseRecurrence to obtain one from a stored bill.
type Cycle interface {
	// Recurrence returns the stored form of the cycle.
	Recurrence() models.Recurrence

	// PeriodOf returns the period containing the calendar date d.
	PeriodOf(d time.Time) Period

	// Next returns the period following p.
	Next(p Period) Period

	// DueIn projects the anchor due date into period p.
	DueIn(anchor time.Time, p Period) time.Time

	cycle()
}

// Monthly repeats on the anchor's day of month every month.
type Monthly struct{}

func (Monthly) Recurrence() models.Recurrence { return models.RecurrenceMonthly }

func (Monthly) PeriodOf(d time.Time) Period {
	return Period{Year: d.Year(), Index: int(d.Month())}
}

func (Monthly) Next(p Period) Period {
	if p.Index == 12 {
		return Period{Year: p.Year + 1, Index: 1}
	}
	return Period{Year: p.Year, Index: p.Index + 1}
}

func (Monthly) DueIn(anchor time.Time, p Period) time.Time {
	return clampDate(p.Year, time.Month(p.Index), anchor.Day())
}

func (Monthly) cycle() {}

// Quarterly repeats every calendar quarter, on the same month within the
// quarter and the same day of month as the anchor.
type Quarterly struct{}

func (Quarterly) Recurrence() models.Recurrence { return models.RecurrenceQuarterly }

func (Quarterly) PeriodOf(d time.Time) Period {
	return Period{Year: d.Year(), Index: (int(d.Month()) - 1) / 3}
}

func (Quarterly) Next(p Period) Period {
	if p.Index == 3 {
		return Period{Year: p.Year + 1, Index: 0}
	}
	return Period{Year: p.Year, Index: p.Index + 1}
}

func (Quarterly) DueIn(anchor time.Time, p Period) time.Time {
	offset := (int(anchor.Month()) - 1) % 3
	month := time.Month(p.Index*3 + offset + 1)
	return clampDate(p.Year, month, anchor.Day())
}

func (Quarterly) cycle() {}

// Yearly repeats on the anchor's month and day every year.
type Yearly struct{}

func (Yearly) Recurrence() models.Recurrence { return models.RecurrenceYearly }

func (Yearly) PeriodOf(d time.Time) Period { return Period{Year: d.Year()} }

func (Yearly) Next(p Period) Period { return Period{Year: p.Year + 1} }

func (Yearly) DueIn(anchor time.Time, p Period) time.Time {
	return clampDate(p.Year, anchor.Month(), anchor.Day())
}

func (Yearly) cycle() {}

// OneTime has a single period; its due date never moves.
type OneTime struct{}

func (OneTime) Recurrence() models.Recurrence { return models.RecurrenceNone }

func (OneTime) PeriodOf(time.Time) Period { return Period{} }

func (OneTime) Next(p Period) Period { return p }

func (OneTime) DueIn(anchor time.Time, _ Period) time.Time { return anchor }

func (OneTime) cycle() {}

// ParseRecurrence maps a stored recurrence to its cycle.
func ParseRecurrence(r models.Recurrence) (Cycle, error) {
	switch r {
	case models.RecurrenceMonthly:
		return Monthly{}, nil
	case models.RecurrenceQuarterly:
		return Quarterly{}, nil
	case models.RecurrenceYearly:
		return Yearly{}, nil
	case models.RecurrenceNone:
		return OneTime{}, nil
	default:
		return nil, &ValidationError{Field: "recurrence", Reason: fmt.Sprintf("unknown recurrence %q", r)}
	}
}

// clampDate builds a calendar date, moving days past the end of the month
// back to the month's last day (31 -> 30 in April, -> 28/29 in February).
func clampDate(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Occurrences returns up to n due dates starting at the cycle containing
// from, each re-anchored on the original day of month. One-time cycles
// yield a single date.
func Occurrences(c Cycle, anchor, from time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	if _, ok := c.(OneTime); ok {
		return []time.Time{anchor}
	}
	dates := make([]time.Time, 0, n)
	p := c.PeriodOf(from)
	for i := 0; i < n; i++ {
		dates = append(dates, c.DueIn(anchor, p))
		p = c.Next(p)
	}
	return dates
}
