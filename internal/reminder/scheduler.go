package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// Scheduler accepts planned notifications for later delivery.
type Scheduler interface {
	// Schedule stores notifications, replacing pending ones with the same
	// owner, bill and ID.
	Schedule(ctx context.Context, notifications []*models.Notification) error

	// Cancel drops notifications with the given IDs from one of the owner's
	// bills. An empty billID addresses the summary.
	Cancel(ctx context.Context, ownerID, billID string, ids []int32) error

	// CancelForBill drops every pending notification of a bill.
	CancelForBill(ctx context.Context, ownerID, billID string) error

	// ListPending returns the owner's notifications not yet delivered.
	ListPending(ctx context.Context, ownerID string) ([]*models.Notification, error)
}

// StoreScheduler keeps scheduled notifications in the storage backend.
type StoreScheduler struct {
	store storage.NotificationStore
}

var _ Scheduler = (*StoreScheduler)(nil)

// NewStoreScheduler creates a scheduler over store.
func NewStoreScheduler(store storage.NotificationStore) *StoreScheduler {
	return &StoreScheduler{store: store}
}

func (s *StoreScheduler) Schedule(ctx context.Context, notifications []*models.Notification) error {
	return s.store.SaveNotifications(ctx, notifications)
}

func (s *StoreScheduler) Cancel(ctx context.Context, ownerID, billID string, ids []int32) error {
	return s.store.DeleteNotifications(ctx, ownerID, billID, ids)
}

func (s *StoreScheduler) CancelForBill(ctx context.Context, ownerID, billID string) error {
	return s.store.DeleteBillNotifications(ctx, ownerID, billID)
}

func (s *StoreScheduler) ListPending(ctx context.Context, ownerID string) ([]*models.Notification, error) {
	return s.store.ListPendingNotifications(ctx, ownerID)
}

// Reminders combines a planner with a scheduler.
type Reminders struct {
	Planner   Planner
	Scheduler Scheduler
}

// ScheduleBill replaces the pending notifications of a bill with a fresh plan.
// It returns the number of notifications scheduled.
func (r *Reminders) ScheduleBill(ctx context.Context, bill *models.Bill, status calculator.Status, notifyBeforeDays int, now time.Time) (int, error) {
	if err := r.Scheduler.CancelForBill(ctx, bill.OwnerID, bill.ID); err != nil {
		return 0, fmt.Errorf("failed to cancel bill reminders: %w", err)
	}

	notifications := r.Planner.PlanBill(bill, status, notifyBeforeDays, now)
	if err := r.Scheduler.Schedule(ctx, notifications); err != nil {
		return 0, fmt.Errorf("failed to schedule bill reminders: %w", err)
	}

	slog.Debug("Scheduled bill reminders", "bill_id", bill.ID, "count", len(notifications))
	return len(notifications), nil
}

// Sync runs the app-open pass: a summary of the pending bills plus daily
// window reminders for each of them. notifyBefore maps bill IDs to their
// reminder window; bills without a reminder get no window.
func (r *Reminders) Sync(ctx context.Context, ownerID string, bills []calculator.BillWithStatus, notifyBefore map[string]int, now time.Time) (int, error) {
	pending := calculator.Pending(bills)

	var notifications []*models.Notification
	if summary := r.Planner.PlanPendingSummary(ownerID, len(pending), now); summary != nil {
		notifications = append(notifications, summary)
	}
	for _, b := range pending {
		notifications = append(notifications,
			r.Planner.PlanDailyWindow(b.Bill, b.Status, notifyBefore[b.Bill.ID], now)...)
	}

	if err := r.Scheduler.Schedule(ctx, notifications); err != nil {
		return 0, fmt.Errorf("failed to schedule sync reminders: %w", err)
	}
	return len(notifications), nil
}
