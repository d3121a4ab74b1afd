package api

import "github.com/shopspring/decimal"

// User is the profile returned to clients. It never carries credentials.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"display_name"`
	DefaultCurrency string     `json:"default_currency"`
	Onboarding      Onboarding `json:"onboarding"`
	CreatedAt       int64      `json:"created_at"`
	UpdatedAt       int64      `json:"updated_at"`
}

type Onboarding struct {
	CurrencySet       bool  `json:"currency_set"`
	FirstBillAdded    bool  `json:"first_bill_added"`
	CalendarTourDone  bool  `json:"calendar_tour_done"`
	ChecklistTourDone bool  `json:"checklist_tour_done"`
	BillsPageTourDone bool  `json:"bills_page_tour_done"`
	CompletedAt       int64 `json:"completed_at,omitempty"`
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	IsDefault bool   `json:"is_default"`
}

// Bill is a stored bill. DueDate is the original anchor date (YYYY-MM-DD).
type Bill struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	DueDate    string          `json:"due_date"`
	Recurrence string          `json:"recurrence"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  int64           `json:"created_at"`
	UpdatedAt  int64           `json:"updated_at"`
}

// BillStatus is derived on every read and never stored.
type BillStatus struct {
	EffectiveDueDate   string `json:"effective_due_date"`
	IsCurrentMonthPaid bool   `json:"is_current_month_paid"`
	CyclePaid          bool   `json:"cycle_paid"`
	IsOverdue          bool   `json:"is_overdue"`
	DaysUntilDue       int32  `json:"days_until_due"`
}

type BillWithStatus struct {
	Bill           Bill       `json:"bill"`
	Status         BillStatus `json:"status"`
	CurrencySymbol string     `json:"currency_symbol"`
}

type Payment struct {
	ID           string          `json:"id"`
	BillID       string          `json:"bill_id"`
	PaymentDate  int64           `json:"payment_date"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	PaymentMonth string          `json:"payment_month"`
	Notes        string          `json:"notes,omitempty"`
}

type PaymentWithBill struct {
	Payment
	BillName   string `json:"bill_name"`
	CategoryID string `json:"category_id,omitempty"`
}

type Notification struct {
	ID     int32  `json:"id"`
	BillID string `json:"bill_id,omitempty"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	FireAt string `json:"fire_at"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type RegisterResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// UserService

type GetProfileRequest struct{}

type GetProfileResponse struct {
	User User `json:"user"`
}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	DisplayName       *string `json:"display_name,omitempty"`
	DefaultCurrency   *string `json:"default_currency,omitempty"`
	CurrencySet       *bool   `json:"currency_set,omitempty"`
	FirstBillAdded    *bool   `json:"first_bill_added,omitempty"`
	CalendarTourDone  *bool   `json:"calendar_tour_done,omitempty"`
	ChecklistTourDone *bool   `json:"checklist_tour_done,omitempty"`
	BillsPageTourDone *bool   `json:"bills_page_tour_done,omitempty"`
}

type UpdateProfileResponse struct {
	User User `json:"user"`
}

// CategoryService

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type CreateCategoryResponse struct {
	Category Category `json:"category"`
}

type UpdateCategoryRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type UpdateCategoryResponse struct {
	Category Category `json:"category"`
}

type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

type DeleteCategoryResponse struct{}

// BillService

// CreateBillRequest creates a bill. An empty currency defaults to the
// owner's default currency; NotifyBeforeDays, when set, creates a reminder.
type CreateBillRequest struct {
	Name             string          `json:"name"`
	CategoryID       string          `json:"category_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency,omitempty"`
	DueDate          string          `json:"due_date"`
	Recurrence       string          `json:"recurrence"`
	Notes            string          `json:"notes,omitempty"`
	NotifyBeforeDays *int32          `json:"notify_before_days,omitempty"`
}

type CreateBillResponse struct {
	Bill BillWithStatus `json:"bill"`
}

type GetBillRequest struct {
	ID string `json:"id"`
}

type GetBillResponse struct {
	Bill             BillWithStatus `json:"bill"`
	NotifyBeforeDays *int32         `json:"notify_before_days,omitempty"`
}

type UpdateBillRequest struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	CategoryID       string          `json:"category_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency,omitempty"`
	DueDate          string          `json:"due_date"`
	Recurrence       string          `json:"recurrence"`
	Notes            string          `json:"notes,omitempty"`
	NotifyBeforeDays *int32          `json:"notify_before_days,omitempty"`
}

type UpdateBillResponse struct {
	Bill BillWithStatus `json:"bill"`
}

type DeleteBillRequest struct {
	ID string `json:"id"`
}

type DeleteBillResponse struct{}

type ListBillsRequest struct{}

type ListBillsResponse struct {
	Bills []BillWithStatus `json:"bills"`
}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Overdue        []BillWithStatus `json:"overdue"`
	DueToday       []BillWithStatus `json:"due_today"`
	DueTomorrow    []BillWithStatus `json:"due_tomorrow"`
	DueWithin7Days []BillWithStatus `json:"due_within_7_days"`
	DueNext15Days  []BillWithStatus `json:"due_next_15_days"`
	PendingCount   int32            `json:"pending_count"`
}

// Toggle targets.
const (
	ToggleEffective = "effective"
	ToggleCurrent   = "current"
)

type TogglePaidRequest struct {
	BillID string `json:"bill_id"`
	// Target is "effective" (default) or "current".
	Target string `json:"target,omitempty"`
}

type TogglePaidResponse struct {
	Paid         bool           `json:"paid"`
	PaymentMonth string         `json:"payment_month"`
	Bill         BillWithStatus `json:"bill"`
}

// RecordPaymentRequest records a payment. A nil amount records the bill's
// amount; an empty payment month uses the month after the effective due date.
type RecordPaymentRequest struct {
	BillID       string           `json:"bill_id"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	PaymentMonth string           `json:"payment_month,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

type RecordPaymentResponse struct {
	Payment Payment        `json:"payment"`
	Bill    BillWithStatus `json:"bill"`
}

type DeletePaymentRequest struct {
	ID string `json:"id"`
}

type DeletePaymentResponse struct{}

type ListPaymentsRequest struct {
	BillID string `json:"bill_id"`
}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type ListPaymentHistoryRequest struct{}

type ListPaymentHistoryResponse struct {
	Payments []PaymentWithBill `json:"payments"`
}

// ReminderService

type ListPendingNotificationsRequest struct{}

type ListPendingNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type CancelBillRemindersRequest struct {
	BillID string `json:"bill_id"`
}

type CancelBillRemindersResponse struct{}

type SyncRemindersRequest struct{}

type SyncRemindersResponse struct {
	PendingBills int32 `json:"pending_bills"`
	Scheduled    int32 `json:"scheduled"`
}
