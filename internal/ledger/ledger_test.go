package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
	"github.com/mmynk/billtracker/internal/storage/sqlite"
)

var feb10 = time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

// setupLedger returns a ledger over a temp SQLite database with one user
// owning a monthly bill due 2024-01-31. The ledger clock is fixed at feb10.
func setupLedger(t *testing.T) (*Ledger, *sqlite.SQLiteStore, *models.Bill) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billtracker-ledger-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.RemoveAll(tempDir)
	})

	ctx := context.Background()
	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bill := &models.Bill{
		OwnerID:    user.ID,
		Name:       "Rent",
		Amount:     decimal.RequireFromString("1500"),
		Currency:   "USD",
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Recurrence: models.RecurrenceMonthly,
	}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	l := New(store)
	l.now = func() time.Time { return feb10 }
	return l, store, bill
}

func monthPtr(y int, m time.Month) *time.Time {
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRecordPayment(t *testing.T) {
	l, _, bill := setupLedger(t)
	ctx := context.Background()

	payment, err := l.RecordPayment(ctx, RecordParams{
		BillID:    bill.ID,
		OwnerID:   bill.OwnerID,
		Amount:    bill.Amount,
		PeriodKey: monthPtr(2024, time.February),
		Notes:     "paid by transfer",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if payment.ID == "" {
		t.Error("expected payment ID to be assigned")
	}
	if payment.Currency != "USD" || payment.PaymentDate != feb10.Unix() {
		t.Errorf("unexpected payment: %+v", payment)
	}

	_, status, err := l.Status(ctx, bill.OwnerID, bill.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	want := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if !status.EffectiveDueDate.Equal(want) || !status.CurrentPeriodPaid || status.IsOverdue {
		t.Errorf("status after payment = %+v, want effective %s and paid", status, want)
	}
}

func TestRecordPayment_DefaultPeriod(t *testing.T) {
	l, _, bill := setupLedger(t)

	// Effective due date is the untouched anchor, 2024-01-31.
	payment, err := l.RecordPayment(context.Background(), RecordParams{
		BillID:  bill.ID,
		OwnerID: bill.OwnerID,
		Amount:  bill.Amount,
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if !payment.PaymentMonth.Equal(want) {
		t.Errorf("PaymentMonth = %s, want %s", payment.PaymentMonth, want)
	}
}

func TestRecordPayment_Errors(t *testing.T) {
	l, store, bill := setupLedger(t)
	ctx := context.Background()

	_, err := l.RecordPayment(ctx, RecordParams{
		BillID:  bill.ID,
		OwnerID: bill.OwnerID,
		Amount:  decimal.NewFromInt(-5),
	})
	var ve *calculator.ValidationError
	if !errors.As(err, &ve) || ve.Field != "amount" {
		t.Errorf("expected amount ValidationError, got %v", err)
	}

	mallory := models.NewUser("mallory@example.com", "Mallory", "hash")
	if err := store.CreateUser(ctx, mallory); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	_, err = l.RecordPayment(ctx, RecordParams{BillID: bill.ID, OwnerID: mallory.ID, Amount: bill.Amount})
	if !errors.Is(err, storage.ErrNotPermitted) {
		t.Errorf("expected ErrNotPermitted, got %v", err)
	}

	_, err = l.RecordPayment(ctx, RecordParams{BillID: "no-such-bill", OwnerID: bill.OwnerID, Amount: bill.Amount})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	payments, _ := l.ListPayments(ctx, bill.OwnerID, bill.ID)
	if len(payments) != 0 {
		t.Errorf("failed records must not write, found %d payments", len(payments))
	}
}

func TestRecordThenDelete_RestoresStatus(t *testing.T) {
	tests := []struct {
		name  string
		month *time.Time
	}{
		{"current month", monthPtr(2024, time.February)},
		{"anchor month", monthPtr(2024, time.January)},
		{"future month", monthPtr(2024, time.June)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, bill := setupLedger(t)
			ctx := context.Background()

			_, before, err := l.Status(ctx, bill.OwnerID, bill.ID)
			if err != nil {
				t.Fatalf("Status failed: %v", err)
			}

			payment, err := l.RecordPayment(ctx, RecordParams{
				BillID: bill.ID, OwnerID: bill.OwnerID, Amount: bill.Amount, PeriodKey: tt.month,
			})
			if err != nil {
				t.Fatalf("RecordPayment failed: %v", err)
			}
			if err := l.DeletePayment(ctx, bill.OwnerID, payment.ID); err != nil {
				t.Fatalf("DeletePayment failed: %v", err)
			}

			_, after, err := l.Status(ctx, bill.OwnerID, bill.ID)
			if err != nil {
				t.Fatalf("Status failed: %v", err)
			}
			if after != before {
				t.Errorf("status not restored: before %+v, after %+v", before, after)
			}
		})
	}
}

func TestDeletePayment_AlreadyGone(t *testing.T) {
	l, _, bill := setupLedger(t)
	ctx := context.Background()

	payment, err := l.RecordPayment(ctx, RecordParams{
		BillID: bill.ID, OwnerID: bill.OwnerID, Amount: bill.Amount, PeriodKey: monthPtr(2024, time.February),
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := l.DeletePayment(ctx, bill.OwnerID, payment.ID); err != nil {
			t.Errorf("DeletePayment attempt %d: %v", i+1, err)
		}
	}
}

func TestListPayments_NewestFirst(t *testing.T) {
	l, _, bill := setupLedger(t)
	ctx := context.Background()

	for _, m := range []time.Month{time.March, time.January, time.February} {
		if _, err := l.RecordPayment(ctx, RecordParams{
			BillID: bill.ID, OwnerID: bill.OwnerID, Amount: bill.Amount, PeriodKey: monthPtr(2024, m),
		}); err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
	}

	payments, err := l.ListPayments(ctx, bill.OwnerID, bill.ID)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}
	for i, want := range []time.Month{time.March, time.February, time.January} {
		if payments[i].PaymentMonth.Month() != want {
			t.Errorf("payments[%d] month = %s, want %s", i, payments[i].PaymentMonth.Month(), want)
		}
	}

	history, err := l.History(ctx, bill.OwnerID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 || history[0].BillName != "Rent" {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestTogglePaid(t *testing.T) {
	t.Run("effective", func(t *testing.T) {
		l, _, bill := setupLedger(t)
		ctx := context.Background()

		steps := []struct {
			paid          bool
			month         time.Month
			wantEffective time.Time
		}{
			// Untouched bill: the overdue anchor cycle is paid first.
			{true, time.January, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
			// Then the current cycle, which rolls the bill to March.
			{true, time.February, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
			// With the current cycle paid the toggle unmarks it.
			{false, time.February, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		}

		for i, step := range steps {
			result, err := l.TogglePaid(ctx, bill.OwnerID, bill.ID, TargetEffective)
			if err != nil {
				t.Fatalf("step %d: TogglePaid failed: %v", i, err)
			}
			if result.Paid != step.paid || result.Month.Month() != step.month {
				t.Errorf("step %d: got paid=%v month=%s, want paid=%v month=%s",
					i, result.Paid, result.Month.Month(), step.paid, step.month)
			}
			_, status, _ := l.Status(ctx, bill.OwnerID, bill.ID)
			if !status.EffectiveDueDate.Equal(step.wantEffective) {
				t.Errorf("step %d: effective = %s, want %s", i, status.EffectiveDueDate, step.wantEffective)
			}
		}
	})

	t.Run("current", func(t *testing.T) {
		l, _, bill := setupLedger(t)
		ctx := context.Background()

		first, err := l.TogglePaid(ctx, bill.OwnerID, bill.ID, TargetCurrent)
		if err != nil || !first.Paid || first.Month.Month() != time.February {
			t.Fatalf("first toggle = %+v, %v", first, err)
		}
		if !first.Payment.Amount.Equal(bill.Amount) {
			t.Errorf("toggle should record the bill amount, got %s", first.Payment.Amount)
		}

		second, err := l.TogglePaid(ctx, bill.OwnerID, bill.ID, TargetCurrent)
		if err != nil || second.Paid || second.Payment.ID != first.Payment.ID {
			t.Fatalf("second toggle = %+v, %v", second, err)
		}

		payments, _ := l.ListPayments(ctx, bill.OwnerID, bill.ID)
		if len(payments) != 0 {
			t.Errorf("expected empty ledger, got %d entries", len(payments))
		}
	})

	t.Run("unmark clears every entry of the period", func(t *testing.T) {
		l, store, rent := setupLedger(t)
		ctx := context.Background()

		bill := &models.Bill{
			OwnerID:    rent.OwnerID,
			Name:       "Insurance",
			Amount:     decimal.RequireFromString("300"),
			Currency:   "USD",
			DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			Recurrence: models.RecurrenceQuarterly,
		}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		for _, m := range []time.Month{time.January, time.February} {
			if _, err := l.RecordPayment(ctx, RecordParams{
				BillID: bill.ID, OwnerID: bill.OwnerID, Amount: bill.Amount, PeriodKey: monthPtr(2024, m),
			}); err != nil {
				t.Fatalf("RecordPayment failed: %v", err)
			}
		}

		result, err := l.TogglePaid(ctx, bill.OwnerID, bill.ID, TargetCurrent)
		if err != nil {
			t.Fatalf("TogglePaid failed: %v", err)
		}
		if result.Paid || result.Removed != 2 || result.Payment.PaymentMonth.Month() != time.February {
			t.Errorf("toggle = %+v, want two entries removed, newest February", result)
		}

		_, status, _ := l.Status(ctx, bill.OwnerID, bill.ID)
		if status.CurrentPeriodPaid {
			t.Error("quarter still reads as paid after unmarking")
		}
		if payments, _ := l.ListPayments(ctx, bill.OwnerID, bill.ID); len(payments) != 0 {
			t.Errorf("expected empty ledger, got %d entries", len(payments))
		}
	})

	t.Run("not permitted", func(t *testing.T) {
		l, _, bill := setupLedger(t)
		_, err := l.TogglePaid(context.Background(), "someone-else", bill.ID, TargetCurrent)
		if err == nil {
			t.Error("expected error toggling another user's bill")
		}
	})
}
