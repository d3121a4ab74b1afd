// Package reminder plans bill reminder notifications and delivers them.
//
// Planning is pure: a Planner turns a bill and its derived status into a set
// of notifications. A Scheduler persists them and a Notifier pushes the ones
// that come due to connected clients.
package reminder

import (
	"fmt"
	"time"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/currency"
	"github.com/mmynk/billtracker/internal/models"
)

// summaryDelay is how long after a sync the pending summary fires.
const summaryDelay = 2 * time.Second

// Planner computes notification schedules.
type Planner struct {
	// Occurrences is how many cycles of a recurring bill are planned ahead,
	// at most MaxOccurrences.
	Occurrences int

	// MorningHour and EveningHour are the local hours reminders fire at.
	MorningHour int
	EveningHour int

	// Location is the time zone fire times are expressed in.
	Location *time.Location
}

// DefaultPlanner plans 12 occurrences at 09:00 and 18:00 UTC.
func DefaultPlanner() Planner {
	return Planner{
		Occurrences: 12,
		MorningHour: 9,
		EveningHour: 18,
		Location:    time.UTC,
	}
}

// PlanBill plans, for each upcoming occurrence starting at the effective due
// date, a reminder notifyBeforeDays ahead (when positive) and one on the due
// day. Only fire times after now are returned.
func (p Planner) PlanBill(bill *models.Bill, status calculator.Status, notifyBeforeDays int, now time.Time) []*models.Notification {
	var notifications []*models.Notification
	amount := formatAmount(bill)

	for i, due := range p.occurrences(bill, status) {
		if notifyBeforeDays > 0 {
			at := p.at(due.AddDate(0, 0, -notifyBeforeDays), p.MorningHour)
			if at.After(now) {
				notifications = append(notifications, &models.Notification{
					ID:      NotificationID(bill.ID, i*2+offsetBefore),
					OwnerID: bill.OwnerID,
					BillID:  bill.ID,
					Kind:    models.NotificationBefore,
					Title:   "Upcoming Bill: " + bill.Name,
					Body: fmt.Sprintf("Your %s bill of %s is due in %d %s.",
						bill.Name, amount, notifyBeforeDays, plural(notifyBeforeDays, "day")),
					FireAt: at,
				})
			}
		}

		at := p.at(due, p.MorningHour)
		if at.After(now) {
			notifications = append(notifications, &models.Notification{
				ID:      NotificationID(bill.ID, i*2+offsetDue),
				OwnerID: bill.OwnerID,
				BillID:  bill.ID,
				Kind:    models.NotificationDue,
				Title:   "Bill Due Today: " + bill.Name,
				Body:    fmt.Sprintf("Your %s bill of %s is due today!", bill.Name, amount),
				FireAt:  at,
			})
		}
	}
	return notifications
}

// PlanDailyWindow plans a morning and an evening reminder on every day from
// notifyBeforeDays before each upcoming due date through the due day itself.
// Days already behind now are skipped. A zero window plans nothing.
func (p Planner) PlanDailyWindow(bill *models.Bill, status calculator.Status, notifyBeforeDays int, now time.Time) []*models.Notification {
	if notifyBeforeDays <= 0 {
		return nil
	}

	var notifications []*models.Notification
	amount := formatAmount(bill)
	today := models.Date(now.In(p.location()))

	for idx, due := range p.occurrences(bill, status) {
		if today.After(due) {
			continue
		}
		windowStart := due.AddDate(0, 0, -notifyBeforeDays)
		day := windowStart
		if today.After(day) {
			day = today
		}

		for ; !day.After(due); day = day.AddDate(0, 0, 1) {
			dayIdx := int(day.Sub(windowStart).Hours() / 24)
			base := offsetWindow + idx*windowStride + dayIdx*2

			if at := p.at(day, p.MorningHour); at.After(now) {
				notifications = append(notifications, &models.Notification{
					ID:      NotificationID(bill.ID, base),
					OwnerID: bill.OwnerID,
					BillID:  bill.ID,
					Kind:    models.NotificationWindow,
					Title:   "Bill due soon: " + bill.Name,
					Body:    fmt.Sprintf("Due %s • %s • %s", formatDueDay(due), bill.Name, amount),
					FireAt:  at,
				})
			}
			if at := p.at(day, p.EveningHour); at.After(now) {
				notifications = append(notifications, &models.Notification{
					ID:      NotificationID(bill.ID, base+1),
					OwnerID: bill.OwnerID,
					BillID:  bill.ID,
					Kind:    models.NotificationWindow,
					Title:   "Reminder: " + bill.Name + " due",
					Body:    fmt.Sprintf("Don't forget to pay • %s • %s", bill.Name, amount),
					FireAt:  at,
				})
			}
		}
	}
	return notifications
}

// PlanPendingSummary plans one notification shortly after now telling the
// owner how many bills are pending. It returns nil when count is zero.
func (p Planner) PlanPendingSummary(ownerID string, count int, now time.Time) *models.Notification {
	if count <= 0 {
		return nil
	}
	return &models.Notification{
		ID:      summaryID(ownerID),
		OwnerID: ownerID,
		Kind:    models.NotificationSummary,
		Title:   fmt.Sprintf("You have %d pending %s", count, plural(count, "bill")),
		Body:    "Tap to review and mark as paid.",
		FireAt:  now.Add(summaryDelay),
	}
}

// occurrences returns the due dates to plan, starting at the effective due
// date. One-time bills have a single occurrence.
func (p Planner) occurrences(bill *models.Bill, status calculator.Status) []time.Time {
	cycle, err := calculator.ParseRecurrence(bill.Recurrence)
	if err != nil {
		return nil
	}
	from := status.EffectiveDueDate
	if from.IsZero() {
		from = bill.DueDate
	}
	return calculator.Occurrences(cycle, models.Date(bill.DueDate), from, min(p.Occurrences, MaxOccurrences))
}

// at places the calendar date d at hour o'clock in the planner's location.
func (p Planner) at(d time.Time, hour int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, p.location())
}

func (p Planner) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func formatAmount(bill *models.Bill) string {
	return currency.Symbol(bill.Currency) + bill.Amount.StringFixed(2)
}

func formatDueDay(d time.Time) string {
	return d.Format("Jan 2")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
