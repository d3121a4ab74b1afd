package models

import "time"

// MaxNotifyBeforeDays bounds the reminder window.
const MaxNotifyBeforeDays = 30

// Reminder is the owner's reminder preference for one bill.
type Reminder struct {
	// BillID is the bill the reminder belongs to (one reminder per bill).
	BillID string

	// NotifyBeforeDays is how many days before each due date to warn.
	// 0 means only the due-day notification.
	NotifyBeforeDays int
}

// NotificationKind classifies scheduled notifications.
type NotificationKind string

const (
	NotificationBefore  NotificationKind = "before"
	NotificationDue     NotificationKind = "due"
	NotificationWindow  NotificationKind = "window"
	NotificationSummary NotificationKind = "summary"
)

// NotificationKey identifies a stored notification. IDs are only unique
// within one owner's bill, so the owner and bill are part of the key. BillID
// is empty for summaries.
type NotificationKey struct {
	OwnerID string
	BillID  string
	ID      int32
}

// Notification is a reminder scheduled for delivery at FireAt.
type Notification struct {
	// ID is a small non-negative integer derived from the bill ID and an
	// offset, so a bill's scheduled set can be replaced deterministically.
	ID int32

	// OwnerID is the user the notification is for.
	OwnerID string

	// BillID is the bill the notification is about. Empty for summaries.
	BillID string

	Kind  NotificationKind
	Title string
	Body  string

	// FireAt is when the notification should be delivered.
	FireAt time.Time

	// DeliveredAt is when the notification was pushed, zero while pending.
	DeliveredAt time.Time
}

// Key returns the storage key of the notification.
func (n *Notification) Key() NotificationKey {
	return NotificationKey{OwnerID: n.OwnerID, BillID: n.BillID, ID: n.ID}
}
