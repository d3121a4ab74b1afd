package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/ledger"
	"github.com/mmynk/billtracker/internal/metrics"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/profile"
	"github.com/mmynk/billtracker/internal/reminder"
	"github.com/mmynk/billtracker/internal/storage"
	"github.com/mmynk/billtracker/pkg/api"
	"github.com/mmynk/billtracker/pkg/api/apiconnect"
)

var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService: bill CRUD, derived status
// and the payment ledger.
type BillService struct {
	store     storage.Store
	ledger    *ledger.Ledger
	reminders *reminder.Reminders
	profiles  *profile.Cache
	now       func() time.Time
}

// NewBillService creates a new BillService.
func NewBillService(store storage.Store, l *ledger.Ledger, reminders *reminder.Reminders, profiles *profile.Cache) *BillService {
	return &BillService{
		store:     store,
		ledger:    l,
		reminders: reminders,
		profiles:  profiles,
		now:       time.Now,
	}
}

// CreateBill creates a bill and, when a reminder window is given, schedules
// its reminders.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateBill request received",
		"user_id", userID,
		"name", req.Msg.Name,
		"recurrence", req.Msg.Recurrence,
	)

	now := s.now()
	bill := &models.Bill{
		OwnerID:   userID,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	fields := billFields{
		Name:       req.Msg.Name,
		CategoryID: req.Msg.CategoryID,
		Amount:     req.Msg.Amount,
		Currency:   req.Msg.Currency,
		DueDate:    req.Msg.DueDate,
		Recurrence: req.Msg.Recurrence,
		Notes:      req.Msg.Notes,
	}
	if err := s.fill(ctx, bill, fields); err != nil {
		slog.Warn("CreateBill rejected", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	notifyBefore, err := notifyBeforeDays(req.Msg.NotifyBeforeDays)
	if err != nil {
		return nil, connectError(err)
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	status, err := calculator.CalculateStatus(bill, nil, now)
	if err != nil {
		return nil, connectError(err)
	}
	if notifyBefore != nil {
		if err := s.store.UpsertReminder(ctx, userID, &models.Reminder{BillID: bill.ID, NotifyBeforeDays: *notifyBefore}); err != nil {
			slog.Error("Failed to save reminder", "bill_id", bill.ID, "error", err)
			return nil, connectError(err)
		}
		s.schedule(ctx, bill, status, *notifyBefore, now)
	}

	slog.Info("Bill created", "bill_id", bill.ID)
	return connect.NewResponse(&api.CreateBillResponse{Bill: toAPIBillWithStatus(bill, status)}), nil
}

// GetBill returns one bill with its status and reminder window.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	bill, status, err := s.ledger.Status(ctx, userID, req.Msg.ID)
	if err != nil {
		slog.Error("GetBill failed", "bill_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.GetBillResponse{Bill: toAPIBillWithStatus(bill, status)}
	r, err := s.store.GetReminder(ctx, userID, bill.ID)
	switch {
	case err == nil:
		days := int32(r.NotifyBeforeDays)
		resp.NotifyBeforeDays = &days
	case !errors.Is(err, storage.ErrNotFound):
		slog.Error("Failed to load reminder", "bill_id", bill.ID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(resp), nil
}

// UpdateBill replaces the editable fields of a bill and reschedules its
// reminders.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateBill request received", "user_id", userID, "bill_id", req.Msg.ID)

	bill, err := s.store.GetBill(ctx, userID, req.Msg.ID)
	if err != nil {
		slog.Error("UpdateBill failed", "bill_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	fields := billFields{
		Name:       req.Msg.Name,
		CategoryID: req.Msg.CategoryID,
		Amount:     req.Msg.Amount,
		Currency:   req.Msg.Currency,
		DueDate:    req.Msg.DueDate,
		Recurrence: req.Msg.Recurrence,
		Notes:      req.Msg.Notes,
	}
	if fields.Currency == "" {
		fields.Currency = bill.Currency
	}
	if err := s.fill(ctx, bill, fields); err != nil {
		slog.Warn("UpdateBill rejected", "bill_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}
	notifyBefore, err := notifyBeforeDays(req.Msg.NotifyBeforeDays)
	if err != nil {
		return nil, connectError(err)
	}

	now := s.now()
	bill.UpdatedAt = now.Unix()
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		slog.Error("UpdateBill failed", "bill_id", bill.ID, "error", err)
		return nil, connectError(err)
	}
	if notifyBefore != nil {
		if err := s.store.UpsertReminder(ctx, userID, &models.Reminder{BillID: bill.ID, NotifyBeforeDays: *notifyBefore}); err != nil {
			slog.Error("Failed to save reminder", "bill_id", bill.ID, "error", err)
			return nil, connectError(err)
		}
	}

	_, status, err := s.ledger.Status(ctx, userID, bill.ID)
	if err != nil {
		return nil, connectError(err)
	}
	s.reschedule(ctx, bill, status, now)

	slog.Info("Bill updated", "bill_id", bill.ID)
	return connect.NewResponse(&api.UpdateBillResponse{Bill: toAPIBillWithStatus(bill, status)}), nil
}

// DeleteBill removes a bill with its payments and cancels its reminders.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteBill request received", "user_id", userID, "bill_id", req.Msg.ID)

	if err := s.reminders.Scheduler.CancelForBill(ctx, userID, req.Msg.ID); err != nil {
		slog.Warn("Failed to cancel bill reminders", "bill_id", req.Msg.ID, "error", err)
	}
	if err := s.store.DeleteBill(ctx, userID, req.Msg.ID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Bill deleted", "bill_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// ListBills returns every bill of the caller with its status, earliest
// effective due date first.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := loadBills(ctx, s.store, userID, s.now())
	if err != nil {
		slog.Error("ListBills failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("ListBills successful", "user_id", userID, "count", len(bills))
	return connect.NewResponse(&api.ListBillsResponse{Bills: toAPIBills(bills)}), nil
}

// GetDashboard groups the caller's bills into urgency buckets.
func (s *BillService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := loadBills(ctx, s.store, userID, s.now())
	if err != nil {
		slog.Error("GetDashboard failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	b := calculator.Categorize(bills)
	return connect.NewResponse(&api.GetDashboardResponse{
		Overdue:        toAPIBills(b.Overdue),
		DueToday:       toAPIBills(b.DueToday),
		DueTomorrow:    toAPIBills(b.DueTomorrow),
		DueWithin7Days: toAPIBills(b.DueWithin7Days),
		DueNext15Days:  toAPIBills(b.DueNext15Days),
		PendingCount:   int32(len(calculator.Pending(bills))),
	}), nil
}

// TogglePaid marks or unmarks one month of a bill as paid.
func (s *BillService) TogglePaid(ctx context.Context, req *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.TogglePaidResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("TogglePaid request received", "user_id", userID, "bill_id", req.Msg.BillID, "target", req.Msg.Target)

	var target ledger.Target
	switch req.Msg.Target {
	case "", api.ToggleEffective:
		target = ledger.TargetEffective
	case api.ToggleCurrent:
		target = ledger.TargetCurrent
	default:
		return nil, invalid("target", fmt.Sprintf("unknown target %q", req.Msg.Target))
	}

	result, err := s.ledger.TogglePaid(ctx, userID, req.Msg.BillID, target)
	if err != nil {
		slog.Error("TogglePaid failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}
	if result.Paid {
		metrics.PaymentsRecorded.Inc()
	}

	bill, status, err := s.ledger.Status(ctx, userID, req.Msg.BillID)
	if err != nil {
		return nil, connectError(err)
	}
	s.reschedule(ctx, bill, status, s.now())

	slog.Info("Bill toggled",
		"bill_id", bill.ID,
		"paid", result.Paid,
		"payment_month", models.FormatDate(result.Month),
	)
	return connect.NewResponse(&api.TogglePaidResponse{
		Paid:         result.Paid,
		PaymentMonth: models.FormatDate(result.Month),
		Bill:         toAPIBillWithStatus(bill, status),
	}), nil
}

// RecordPayment appends a ledger entry. The amount defaults to the bill's
// amount and the month to the one after the effective due date.
func (s *BillService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordPayment request received", "user_id", userID, "bill_id", req.Msg.BillID)

	params := ledger.RecordParams{
		BillID:  req.Msg.BillID,
		OwnerID: userID,
		Notes:   req.Msg.Notes,
	}
	if req.Msg.Amount != nil {
		params.Amount = *req.Msg.Amount
	} else {
		bill, err := s.store.GetBill(ctx, userID, req.Msg.BillID)
		if err != nil {
			slog.Error("RecordPayment failed", "bill_id", req.Msg.BillID, "error", err)
			return nil, connectError(err)
		}
		params.Amount = bill.Amount
	}
	if req.Msg.PaymentMonth != "" {
		month, err := parsePaymentMonth(req.Msg.PaymentMonth)
		if err != nil {
			return nil, connectError(err)
		}
		params.PeriodKey = &month
	}

	payment, err := s.ledger.RecordPayment(ctx, params)
	if err != nil {
		slog.Error("RecordPayment failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}
	metrics.PaymentsRecorded.Inc()

	bill, status, err := s.ledger.Status(ctx, userID, req.Msg.BillID)
	if err != nil {
		return nil, connectError(err)
	}
	s.reschedule(ctx, bill, status, s.now())

	slog.Info("Payment recorded", "payment_id", payment.ID, "bill_id", bill.ID)
	return connect.NewResponse(&api.RecordPaymentResponse{
		Payment: toAPIPayment(payment),
		Bill:    toAPIBillWithStatus(bill, status),
	}), nil
}

// DeletePayment removes a ledger entry. Deleting a missing entry succeeds.
func (s *BillService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeletePayment request received", "user_id", userID, "payment_id", req.Msg.ID)

	if err := s.ledger.DeletePayment(ctx, userID, req.Msg.ID); err != nil {
		slog.Error("DeletePayment failed", "payment_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}

// ListPayments returns a bill's ledger, newest month first.
func (s *BillService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.ledger.ListPayments(ctx, userID, req.Msg.BillID)
	if err != nil {
		slog.Error("ListPayments failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// ListPaymentHistory returns every payment of the caller with its bill name.
func (s *BillService) ListPaymentHistory(ctx context.Context, req *connect.Request[api.ListPaymentHistoryRequest]) (*connect.Response[api.ListPaymentHistoryResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.ledger.History(ctx, userID)
	if err != nil {
		slog.Error("ListPaymentHistory failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.PaymentWithBill, len(history))
	for i, p := range history {
		out[i] = api.PaymentWithBill{
			Payment:    toAPIPayment(&p.Payment),
			BillName:   p.BillName,
			CategoryID: p.CategoryID,
		}
	}
	return connect.NewResponse(&api.ListPaymentHistoryResponse{Payments: out}), nil
}

// billFields are the editable fields of a bill as sent on the wire.
type billFields struct {
	Name       string
	CategoryID string
	Amount     decimal.Decimal
	Currency   string
	DueDate    string
	Recurrence string
	Notes      string
}

// fill validates f and copies it into bill. An empty currency falls back to
// the owner's default currency.
func (s *BillService) fill(ctx context.Context, bill *models.Bill, f billFields) error {
	due, err := models.ParseDate(f.DueDate)
	if err != nil {
		return &calculator.ValidationError{Field: "due_date", Reason: err.Error()}
	}

	code := f.Currency
	if code == "" {
		user, err := s.profiles.Get(ctx, bill.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		code = user.DefaultCurrency
	}

	bill.Name = strings.TrimSpace(f.Name)
	bill.CategoryID = f.CategoryID
	bill.Amount = f.Amount
	bill.Currency = code
	bill.DueDate = due
	bill.Recurrence = models.Recurrence(strings.ToLower(f.Recurrence))
	bill.Notes = f.Notes
	return calculator.ValidateBill(bill)
}

// schedule plans the reminders of a bill. Failures are logged, not returned:
// the bill change has already been committed.
func (s *BillService) schedule(ctx context.Context, bill *models.Bill, status calculator.Status, notifyBefore int, now time.Time) {
	n, err := s.reminders.ScheduleBill(ctx, bill, status, notifyBefore, now)
	if err != nil {
		slog.Error("Failed to schedule reminders", "bill_id", bill.ID, "error", err)
		return
	}
	metrics.NotificationsScheduled.Add(float64(n))
}

// reschedule refreshes the reminders of a bill that has a reminder window.
func (s *BillService) reschedule(ctx context.Context, bill *models.Bill, status calculator.Status, now time.Time) {
	r, err := s.store.GetReminder(ctx, bill.OwnerID, bill.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		slog.Error("Failed to load reminder", "bill_id", bill.ID, "error", err)
		return
	}
	s.schedule(ctx, bill, status, r.NotifyBeforeDays, now)
}

func notifyBeforeDays(days *int32) (*int, error) {
	if days == nil {
		return nil, nil
	}
	n := int(*days)
	if err := calculator.ValidateNotifyBeforeDays(n); err != nil {
		return nil, err
	}
	return &n, nil
}

// parsePaymentMonth accepts YYYY-MM or YYYY-MM-DD.
func parsePaymentMonth(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, nil
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, &calculator.ValidationError{Field: "payment_month", Reason: err.Error()}
	}
	return t, nil
}

// loadBills derives the status of every bill of owner, sorted by effective
// due date.
func loadBills(ctx context.Context, store storage.Store, owner string, now time.Time) ([]calculator.BillWithStatus, error) {
	bills, err := store.ListBills(ctx, owner)
	if err != nil {
		return nil, err
	}
	payments, err := store.ListOwnerPayments(ctx, owner)
	if err != nil {
		return nil, err
	}

	byBill := make(map[string][]*models.Payment, len(bills))
	for _, p := range payments {
		byBill[p.BillID] = append(byBill[p.BillID], p)
	}

	withStatus, err := calculator.CalculateAll(bills, byBill, now)
	if err != nil {
		return nil, err
	}
	calculator.SortByEffectiveDueDate(withStatus)
	return withStatus, nil
}
