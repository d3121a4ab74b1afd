package service

import (
	"time"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/currency"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/pkg/api"
)

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		DefaultCurrency: u.DefaultCurrency,
		Onboarding: api.Onboarding{
			CurrencySet:       u.Onboarding.CurrencySet,
			FirstBillAdded:    u.Onboarding.FirstBillAdded,
			CalendarTourDone:  u.Onboarding.CalendarTourDone,
			ChecklistTourDone: u.Onboarding.ChecklistTourDone,
			BillsPageTourDone: u.Onboarding.BillsPageTourDone,
			CompletedAt:       u.Onboarding.CompletedAt,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toAPICategory(c *models.Category) api.Category {
	return api.Category{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
	}
}

func toAPIBill(b *models.Bill) api.Bill {
	return api.Bill{
		ID:         b.ID,
		Name:       b.Name,
		CategoryID: b.CategoryID,
		Amount:     b.Amount,
		Currency:   b.Currency,
		DueDate:    models.FormatDate(b.DueDate),
		Recurrence: string(b.Recurrence),
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toAPIStatus(s calculator.Status) api.BillStatus {
	return api.BillStatus{
		EffectiveDueDate:   models.FormatDate(s.EffectiveDueDate),
		IsCurrentMonthPaid: s.CurrentPeriodPaid,
		CyclePaid:          s.CyclePaid,
		IsOverdue:          s.IsOverdue,
		DaysUntilDue:       int32(s.DaysUntilDue),
	}
}

func toAPIBillWithStatus(b *models.Bill, s calculator.Status) api.BillWithStatus {
	return api.BillWithStatus{
		Bill:           toAPIBill(b),
		Status:         toAPIStatus(s),
		CurrencySymbol: currency.Symbol(b.Currency),
	}
}

// toAPIBills never returns nil so empty lists encode as [].
func toAPIBills(bills []calculator.BillWithStatus) []api.BillWithStatus {
	out := make([]api.BillWithStatus, len(bills))
	for i, b := range bills {
		out[i] = toAPIBillWithStatus(b.Bill, b.Status)
	}
	return out
}

func toAPIPayment(p *models.Payment) api.Payment {
	return api.Payment{
		ID:           p.ID,
		BillID:       p.BillID,
		PaymentDate:  p.PaymentDate,
		Amount:       p.Amount,
		Currency:     p.Currency,
		PaymentMonth: models.FormatDate(p.PaymentMonth),
		Notes:        p.Notes,
	}
}

func toAPINotification(n *models.Notification) api.Notification {
	return api.Notification{
		ID:     n.ID,
		BillID: n.BillID,
		Kind:   string(n.Kind),
		Title:  n.Title,
		Body:   n.Body,
		FireAt: n.FireAt.UTC().Format(time.RFC3339),
	}
}
