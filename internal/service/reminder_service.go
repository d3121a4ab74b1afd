package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/metrics"
	"github.com/mmynk/billtracker/internal/reminder"
	"github.com/mmynk/billtracker/internal/storage"
	"github.com/mmynk/billtracker/pkg/api"
	"github.com/mmynk/billtracker/pkg/api/apiconnect"
)

var _ apiconnect.ReminderServiceHandler = (*ReminderService)(nil)

// ReminderService exposes the scheduled notifications of the caller.
type ReminderService struct {
	store     storage.Store
	reminders *reminder.Reminders
	now       func() time.Time
}

// NewReminderService creates a new ReminderService.
func NewReminderService(store storage.Store, reminders *reminder.Reminders) *ReminderService {
	return &ReminderService{store: store, reminders: reminders, now: time.Now}
}

// ListPendingNotifications returns the caller's undelivered notifications,
// soonest first.
func (s *ReminderService) ListPendingNotifications(ctx context.Context, req *connect.Request[api.ListPendingNotificationsRequest]) (*connect.Response[api.ListPendingNotificationsResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.reminders.Scheduler.ListPending(ctx, userID)
	if err != nil {
		slog.Error("ListPendingNotifications failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.Notification, len(pending))
	for i, n := range pending {
		out[i] = toAPINotification(n)
	}
	return connect.NewResponse(&api.ListPendingNotificationsResponse{Notifications: out}), nil
}

// CancelBillReminders drops every pending notification of a bill. The
// reminder window itself is kept.
func (s *ReminderService) CancelBillReminders(ctx context.Context, req *connect.Request[api.CancelBillRemindersRequest]) (*connect.Response[api.CancelBillRemindersResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CancelBillReminders request received", "user_id", userID, "bill_id", req.Msg.BillID)

	if _, err := s.store.GetBill(ctx, userID, req.Msg.BillID); err != nil {
		slog.Warn("CancelBillReminders failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}
	if err := s.reminders.Scheduler.CancelForBill(ctx, userID, req.Msg.BillID); err != nil {
		slog.Error("CancelBillReminders failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CancelBillRemindersResponse{}), nil
}

// SyncReminders runs the app-open pass: a summary of the pending bills plus
// a daily reminder window for each of them.
func (s *ReminderService) SyncReminders(ctx context.Context, req *connect.Request[api.SyncRemindersRequest]) (*connect.Response[api.SyncRemindersResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bills, err := loadBills(ctx, s.store, userID, now)
	if err != nil {
		slog.Error("SyncReminders failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	reminders, err := s.store.ListReminders(ctx, userID)
	if err != nil {
		slog.Error("SyncReminders failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	notifyBefore := make(map[string]int, len(reminders))
	for _, r := range reminders {
		notifyBefore[r.BillID] = r.NotifyBeforeDays
	}

	n, err := s.reminders.Sync(ctx, userID, bills, notifyBefore, now)
	if err != nil {
		slog.Error("SyncReminders failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	metrics.NotificationsScheduled.Add(float64(n))

	pending := len(calculator.Pending(bills))
	slog.Info("Reminders synced", "user_id", userID, "pending_bills", pending, "scheduled", n)
	return connect.NewResponse(&api.SyncRemindersResponse{
		PendingBills: int32(pending),
		Scheduled:    int32(n),
	}), nil
}
