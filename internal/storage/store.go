// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

// Store defines the interface for bill tracker storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Every owner-scoped method enforces row ownership: a row that exists but
// belongs to another user yields ErrNotPermitted, a missing row ErrNotFound.
// All failures are returned as *StoreError.
type Store interface {
	UserStore
	CategoryStore
	BillStore
	PaymentStore
	ReminderStore
	NotificationStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts and their profile settings.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field is populated by the
	// store when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser saves the profile fields of an existing user.
	UpdateUser(ctx context.Context, user *models.User) error
}

// CategoryStore persists bill categories.
type CategoryStore interface {
	// CreateCategory persists a new category and assigns its ID.
	CreateCategory(ctx context.Context, category *models.Category) error

	// ListCategories returns the owner's categories, defaults first then by name.
	ListCategories(ctx context.Context, ownerID string) ([]*models.Category, error)

	// UpdateCategory saves name, icon and color of an existing category.
	UpdateCategory(ctx context.Context, category *models.Category) error

	// DeleteCategory removes a category. Bills referencing it keep no category.
	DeleteCategory(ctx context.Context, ownerID, categoryID string) error
}

// BillStore persists bills.
type BillStore interface {
	// CreateBill persists a new bill and assigns its ID.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves one of the owner's bills.
	GetBill(ctx context.Context, ownerID, billID string) (*models.Bill, error)

	// UpdateBill saves the editable fields of an existing bill.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill together with its payments, reminder and
	// scheduled notifications.
	DeleteBill(ctx context.Context, ownerID, billID string) error

	// ListBills returns all of the owner's bills ordered by due date.
	ListBills(ctx context.Context, ownerID string) ([]*models.Bill, error)
}

// PaymentStore persists payment ledger entries.
type PaymentStore interface {
	// CreatePayment appends a ledger entry for one of the owner's bills.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// DeletePayment removes a ledger entry.
	DeletePayment(ctx context.Context, ownerID, paymentID string) error

	// ListPayments returns a bill's entries, newest payment month first.
	ListPayments(ctx context.Context, ownerID, billID string) ([]*models.Payment, error)

	// ListOwnerPayments returns every entry of the owner, newest payment
	// month first.
	ListOwnerPayments(ctx context.Context, ownerID string) ([]*models.Payment, error)

	// ListPaymentHistory returns every entry of the owner joined with the
	// bill it belongs to, most recently recorded first.
	ListPaymentHistory(ctx context.Context, ownerID string) ([]*models.PaymentWithBill, error)
}

// ReminderStore persists per-bill reminder preferences.
type ReminderStore interface {
	// UpsertReminder creates or replaces the reminder of one of the owner's bills.
	UpsertReminder(ctx context.Context, ownerID string, reminder *models.Reminder) error

	// GetReminder returns the reminder of a bill.
	GetReminder(ctx context.Context, ownerID, billID string) (*models.Reminder, error)

	// ListReminders returns the reminders of all of the owner's bills.
	ListReminders(ctx context.Context, ownerID string) ([]*models.Reminder, error)
}

// NotificationStore persists scheduled notifications.
type NotificationStore interface {
	// SaveNotifications inserts notifications, replacing the ones with the
	// same key. A notification never replaces one of another owner or bill.
	SaveNotifications(ctx context.Context, notifications []*models.Notification) error

	// DeleteNotifications removes the notifications with the given IDs from
	// one of the owner's bills. An empty billID addresses summaries.
	DeleteNotifications(ctx context.Context, ownerID, billID string, ids []int32) error

	// DeleteBillNotifications removes every pending notification of a bill.
	DeleteBillNotifications(ctx context.Context, ownerID, billID string) error

	// ListPendingNotifications returns the owner's undelivered notifications
	// ordered by fire time.
	ListPendingNotifications(ctx context.Context, ownerID string) ([]*models.Notification, error)

	// ListDueNotifications returns up to limit undelivered notifications of
	// any owner whose fire time is at or before now.
	ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error)

	// MarkDelivered stamps the given notifications as delivered at.
	MarkDelivered(ctx context.Context, keys []models.NotificationKey, at time.Time) error
}
