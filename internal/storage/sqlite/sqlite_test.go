package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billtracker-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		os.RemoveAll(tempDir)
	})
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createBill(t *testing.T, store *SQLiteStore, ownerID, name string, due time.Time) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		OwnerID:    ownerID,
		Name:       name,
		Amount:     decimal.RequireFromString("1200.50"),
		Currency:   "USD",
		DueDate:    due,
		Recurrence: models.RecurrenceMonthly,
	}
	if err := store.CreateBill(context.Background(), bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	return bill
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "test.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("first New failed: %v", err)
	}
	createUser(t, first, "a@example.com")
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("second New failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetUserByEmail(context.Background(), "a@example.com"); err != nil {
		t.Errorf("user lost after reopening: %v", err)
	}
}

func TestUsers(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user := createUser(t, store, "alice@example.com")

	t.Run("CreateUser assigns ID and default currency", func(t *testing.T) {
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Email != "alice@example.com" || got.DefaultCurrency != models.DefaultCurrency {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		var se *storage.StoreError
		if !errors.As(err, &se) {
			t.Errorf("expected *StoreError, got %T", err)
		}
	})

	t.Run("UpdateUser persists profile and onboarding", func(t *testing.T) {
		eur := "EUR"
		done := true
		user.Apply(models.ProfileUpdate{
			DefaultCurrency: &eur,
			CurrencySet:     &done,
			FirstBillAdded:  &done,
		}, time.Now().Unix())

		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.DefaultCurrency != "EUR" || !got.Onboarding.CurrencySet || !got.Onboarding.FirstBillAdded {
			t.Errorf("profile not persisted: %+v", got)
		}
		if got.Onboarding.CalendarTourDone {
			t.Error("untouched flag changed")
		}
	})
}

func TestCategories(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")

	for _, c := range models.DefaultCategories(alice.ID) {
		if err := store.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
	}
	custom := &models.Category{OwnerID: alice.ID, Name: "Gym", Icon: "🏋", Color: "#000000"}
	if err := store.CreateCategory(ctx, custom); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	categories, err := store.ListCategories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(categories))
	}
	if !categories[0].IsDefault || categories[6].Name != "Gym" {
		t.Errorf("expected defaults first, got %s ... %s", categories[0].Name, categories[6].Name)
	}

	if others, _ := store.ListCategories(ctx, bob.ID); len(others) != 0 {
		t.Errorf("bob sees %d of alice's categories", len(others))
	}

	t.Run("UpdateCategory by another user is not permitted", func(t *testing.T) {
		stolen := *custom
		stolen.OwnerID = bob.ID
		stolen.Name = "Mine"
		if err := store.UpdateCategory(ctx, &stolen); !errors.Is(err, storage.ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted, got %v", err)
		}
	})

	t.Run("DeleteCategory uncategorizes its bills", func(t *testing.T) {
		bill := createBill(t, store, alice.ID, "Gym membership", date(2024, 1, 5))
		bill.CategoryID = custom.ID
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}

		if err := store.DeleteCategory(ctx, alice.ID, custom.ID); err != nil {
			t.Fatalf("DeleteCategory failed: %v", err)
		}
		got, err := store.GetBill(ctx, alice.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.CategoryID != "" {
			t.Errorf("expected bill to lose its category, got %q", got.CategoryID)
		}

		if err := store.DeleteCategory(ctx, alice.ID, custom.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestBills(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")

	rent := createBill(t, store, alice.ID, "Rent", date(2024, 1, 31))
	createBill(t, store, alice.ID, "Netflix", date(2024, 1, 10))

	t.Run("GetBill round-trips fields", func(t *testing.T) {
		got, err := store.GetBill(ctx, alice.ID, rent.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Name != "Rent" || !got.Amount.Equal(decimal.RequireFromString("1200.5")) {
			t.Errorf("unexpected bill: %+v", got)
		}
		if !got.DueDate.Equal(date(2024, 1, 31)) {
			t.Errorf("DueDate = %s, want 2024-01-31", models.FormatDate(got.DueDate))
		}
		if got.Recurrence != models.RecurrenceMonthly {
			t.Errorf("Recurrence = %q", got.Recurrence)
		}
	})

	t.Run("ownership is enforced", func(t *testing.T) {
		if _, err := store.GetBill(ctx, bob.ID, rent.ID); !errors.Is(err, storage.ErrNotPermitted) {
			t.Errorf("GetBill: expected ErrNotPermitted, got %v", err)
		}
		if err := store.DeleteBill(ctx, bob.ID, rent.ID); !errors.Is(err, storage.ErrNotPermitted) {
			t.Errorf("DeleteBill: expected ErrNotPermitted, got %v", err)
		}
		if _, err := store.GetBill(ctx, alice.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListBills orders by due date", func(t *testing.T) {
		bills, err := store.ListBills(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 2 || bills[0].Name != "Netflix" {
			t.Errorf("unexpected order: %v", bills)
		}
	})

	t.Run("UpdateBill changes recurrence", func(t *testing.T) {
		rent.Recurrence = models.RecurrenceQuarterly
		rent.Notes = "landlord"
		rent.UpdatedAt = 0
		if err := store.UpdateBill(ctx, rent); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}
		got, _ := store.GetBill(ctx, alice.ID, rent.ID)
		if got.Recurrence != models.RecurrenceQuarterly || got.Notes != "landlord" {
			t.Errorf("update not persisted: %+v", got)
		}
	})
}

func TestPayments(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	rent := createBill(t, store, alice.ID, "Rent", date(2024, 1, 31))

	record := func(month time.Time) *models.Payment {
		t.Helper()
		p := &models.Payment{
			BillID:       rent.ID,
			OwnerID:      alice.ID,
			Amount:       rent.Amount,
			Currency:     rent.Currency,
			PaymentMonth: month,
		}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		return p
	}

	jan := record(date(2024, 1, 15))
	feb := record(date(2024, 2, 1))

	t.Run("payment month is normalized to the first", func(t *testing.T) {
		if !jan.PaymentMonth.Equal(date(2024, 1, 1)) {
			t.Errorf("PaymentMonth = %s", models.FormatDate(jan.PaymentMonth))
		}
	})

	t.Run("ListPayments returns newest month first", func(t *testing.T) {
		payments, err := store.ListPayments(ctx, alice.ID, rent.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 2 || payments[0].ID != feb.ID {
			t.Fatalf("unexpected payments: %v", payments)
		}
		if !payments[0].Amount.Equal(rent.Amount) {
			t.Errorf("Amount = %s", payments[0].Amount)
		}
	})

	t.Run("payments on another user's bill are not permitted", func(t *testing.T) {
		err := store.CreatePayment(ctx, &models.Payment{
			BillID: rent.ID, OwnerID: bob.ID, PaymentMonth: date(2024, 3, 1),
		})
		if !errors.Is(err, storage.ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted, got %v", err)
		}
		if _, err := store.ListPayments(ctx, bob.ID, rent.ID); !errors.Is(err, storage.ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted, got %v", err)
		}
		if err := store.DeletePayment(ctx, bob.ID, jan.ID); !errors.Is(err, storage.ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted, got %v", err)
		}
	})

	t.Run("ListPaymentHistory joins bill name", func(t *testing.T) {
		history, err := store.ListPaymentHistory(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListPaymentHistory failed: %v", err)
		}
		if len(history) != 2 || history[0].BillName != "Rent" {
			t.Errorf("unexpected history: %+v", history)
		}
	})

	t.Run("DeletePayment removes one entry", func(t *testing.T) {
		if err := store.DeletePayment(ctx, alice.ID, feb.ID); err != nil {
			t.Fatalf("DeletePayment failed: %v", err)
		}
		if err := store.DeletePayment(ctx, alice.ID, feb.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		payments, _ := store.ListOwnerPayments(ctx, alice.ID)
		if len(payments) != 1 || payments[0].ID != jan.ID {
			t.Errorf("unexpected payments after delete: %v", payments)
		}
	})

	t.Run("DeleteBill cascades", func(t *testing.T) {
		if err := store.UpsertReminder(ctx, alice.ID, &models.Reminder{BillID: rent.ID, NotifyBeforeDays: 3}); err != nil {
			t.Fatalf("UpsertReminder failed: %v", err)
		}
		if err := store.DeleteBill(ctx, alice.ID, rent.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		payments, _ := store.ListOwnerPayments(ctx, alice.ID)
		if len(payments) != 0 {
			t.Errorf("expected payments to be removed, got %d", len(payments))
		}
		reminders, _ := store.ListReminders(ctx, alice.ID)
		if len(reminders) != 0 {
			t.Errorf("expected reminder to be removed, got %d", len(reminders))
		}
	})
}

func TestReminders(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	rent := createBill(t, store, alice.ID, "Rent", date(2024, 1, 31))

	if _, err := store.GetReminder(ctx, alice.ID, rent.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before upsert, got %v", err)
	}

	for _, days := range []int{3, 7} {
		if err := store.UpsertReminder(ctx, alice.ID, &models.Reminder{BillID: rent.ID, NotifyBeforeDays: days}); err != nil {
			t.Fatalf("UpsertReminder failed: %v", err)
		}
	}

	got, err := store.GetReminder(ctx, alice.ID, rent.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.NotifyBeforeDays != 7 {
		t.Errorf("NotifyBeforeDays = %d, want 7", got.NotifyBeforeDays)
	}

	reminders, _ := store.ListReminders(ctx, alice.ID)
	if len(reminders) != 1 {
		t.Errorf("expected one reminder per bill, got %d", len(reminders))
	}
}

func TestNotifications(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	rent := createBill(t, store, alice.ID, "Rent", date(2024, 1, 31))

	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	notifications := []*models.Notification{
		{ID: 1001, OwnerID: alice.ID, BillID: rent.ID, Kind: models.NotificationBefore, Title: "Rent", Body: "soon", FireAt: now.Add(-time.Hour)},
		{ID: 1002, OwnerID: alice.ID, BillID: rent.ID, Kind: models.NotificationDue, Title: "Rent", Body: "today", FireAt: now.Add(24 * time.Hour)},
		{ID: 7, OwnerID: alice.ID, Kind: models.NotificationSummary, Title: "Pending", Body: "2 bills", FireAt: now.Add(-time.Minute)},
	}
	if err := store.SaveNotifications(ctx, notifications); err != nil {
		t.Fatalf("SaveNotifications failed: %v", err)
	}

	pending, err := store.ListPendingNotifications(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListPendingNotifications failed: %v", err)
	}
	if len(pending) != 3 || pending[0].ID != 1001 {
		t.Fatalf("unexpected pending: %+v", pending)
	}
	if !pending[0].FireAt.Equal(now.Add(-time.Hour)) {
		t.Errorf("FireAt = %v", pending[0].FireAt)
	}

	due, err := store.ListDueNotifications(ctx, now, 10)
	if err != nil {
		t.Fatalf("ListDueNotifications failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due notifications, got %d", len(due))
	}

	if err := store.MarkDelivered(ctx, []models.NotificationKey{due[0].Key(), due[1].Key()}, now); err != nil {
		t.Fatalf("MarkDelivered failed: %v", err)
	}
	if due, _ := store.ListDueNotifications(ctx, now, 10); len(due) != 0 {
		t.Errorf("delivered notifications still due: %v", due)
	}

	// Rescheduling an ID makes it pending again.
	notifications[0].FireAt = now.Add(48 * time.Hour)
	if err := store.SaveNotifications(ctx, notifications[:1]); err != nil {
		t.Fatalf("SaveNotifications failed: %v", err)
	}
	pending, _ = store.ListPendingNotifications(ctx, alice.ID)
	if len(pending) != 2 {
		t.Errorf("expected 2 pending after reschedule, got %d", len(pending))
	}

	if err := store.DeleteBillNotifications(ctx, alice.ID, rent.ID); err != nil {
		t.Fatalf("DeleteBillNotifications failed: %v", err)
	}
	if pending, _ := store.ListPendingNotifications(ctx, alice.ID); len(pending) != 0 {
		t.Errorf("expected no pending notifications, got %d", len(pending))
	}

	if err := store.SaveNotifications(ctx, notifications[1:2]); err != nil {
		t.Fatalf("SaveNotifications failed: %v", err)
	}
	if err := store.DeleteNotifications(ctx, alice.ID, rent.ID, []int32{1002}); err != nil {
		t.Fatalf("DeleteNotifications failed: %v", err)
	}
	if pending, _ := store.ListPendingNotifications(ctx, alice.ID); len(pending) != 0 {
		t.Errorf("expected notification to be cancelled, got %d", len(pending))
	}
}

func TestNotifications_KeyedByOwnerAndBill(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	rent := createBill(t, store, alice.ID, "Rent", date(2024, 1, 31))
	power := createBill(t, store, bob.ID, "Power", date(2024, 1, 15))
	water := createBill(t, store, alice.ID, "Water", date(2024, 1, 20))

	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	const id = 1701280002
	notifications := []*models.Notification{
		{ID: id, OwnerID: alice.ID, BillID: rent.ID, Kind: models.NotificationDue, Title: "Rent", FireAt: now},
		{ID: id, OwnerID: bob.ID, BillID: power.ID, Kind: models.NotificationDue, Title: "Power", FireAt: now},
		{ID: id, OwnerID: alice.ID, BillID: water.ID, Kind: models.NotificationDue, Title: "Water", FireAt: now},
		{ID: id, OwnerID: alice.ID, Kind: models.NotificationSummary, Title: "Pending", FireAt: now},
	}
	for _, n := range notifications {
		if err := store.SaveNotifications(ctx, []*models.Notification{n}); err != nil {
			t.Fatalf("SaveNotifications failed: %v", err)
		}
	}

	alicePending, err := store.ListPendingNotifications(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListPendingNotifications failed: %v", err)
	}
	if len(alicePending) != 3 {
		t.Fatalf("expected alice to keep 3 notifications sharing one ID, got %d", len(alicePending))
	}
	bobPending, _ := store.ListPendingNotifications(ctx, bob.ID)
	if len(bobPending) != 1 || bobPending[0].BillID != power.ID || bobPending[0].Title != "Power" {
		t.Fatalf("unexpected bob notifications: %+v", bobPending)
	}

	// Delivering bob's notification leaves alice's with the same ID pending.
	if err := store.MarkDelivered(ctx, []models.NotificationKey{bobPending[0].Key()}, now); err != nil {
		t.Fatalf("MarkDelivered failed: %v", err)
	}
	if pending, _ := store.ListPendingNotifications(ctx, alice.ID); len(pending) != 3 {
		t.Errorf("delivering bob's notification touched alice's: %d pending", len(pending))
	}

	// Cancelling one bill's ID leaves the other bill and the summary alone.
	if err := store.DeleteNotifications(ctx, alice.ID, rent.ID, []int32{id}); err != nil {
		t.Fatalf("DeleteNotifications failed: %v", err)
	}
	pending, _ := store.ListPendingNotifications(ctx, alice.ID)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending after cancelling rent, got %d", len(pending))
	}
	for _, n := range pending {
		if n.BillID == rent.ID {
			t.Errorf("rent notification survived cancel")
		}
	}
}
