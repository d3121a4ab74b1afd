package reminder

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mmynk/billtracker/internal/metrics"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// Sender pushes a payload to the connected clients of one user.
type Sender interface {
	Send(ownerID string, payload []byte) error
}

// Source is the subset of storage the notifier reads due notifications from.
type Source interface {
	ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error)
	MarkDelivered(ctx context.Context, keys []models.NotificationKey, at time.Time) error
}

var _ Source = (storage.NotificationStore)(nil)

const (
	defaultBatch = 500
	tickTimeout  = 30 * time.Second
)

// Notifier periodically delivers notifications whose fire time has passed.
// Delivery is best-effort: a notification is marked delivered once it has
// been handed to the sender, whether or not a client was listening.
type Notifier struct {
	source   Source
	sender   Sender
	interval time.Duration
	batch    int
	now      func() time.Time
}

// NewNotifier creates a notifier polling source every interval.
func NewNotifier(source Source, sender Sender, interval time.Duration) *Notifier {
	return &Notifier{
		source:   source,
		sender:   sender,
		interval: interval,
		batch:    defaultBatch,
		now:      time.Now,
	}
}

// Run delivers due notifications immediately and then on every tick until
// ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Notifier stopped")
			return
		case <-ticker.C:
			n.tick(ctx)
		}
	}
}

func (n *Notifier) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, tickTimeout)
	defer cancel()

	count, err := n.Deliver(ctx)
	if err != nil {
		slog.Error("Failed to deliver notifications", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Delivered notifications", "count", count)
	}
}

// message is the websocket payload of one notification.
type message struct {
	Type   string `json:"type"`
	ID     int32  `json:"id"`
	Kind   string `json:"kind"`
	BillID string `json:"bill_id,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	FireAt string `json:"fire_at"`
}

// Deliver sends one batch of due notifications and marks them delivered.
// It returns the number of notifications delivered.
func (n *Notifier) Deliver(ctx context.Context) (int, error) {
	now := n.now()
	due, err := n.source.ListDueNotifications(ctx, now, n.batch)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	keys := make([]models.NotificationKey, 0, len(due))
	for _, notification := range due {
		keys = append(keys, notification.Key())
		payload, err := json.Marshal(message{
			Type:   "notification",
			ID:     notification.ID,
			Kind:   string(notification.Kind),
			BillID: notification.BillID,
			Title:  notification.Title,
			Body:   notification.Body,
			FireAt: notification.FireAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			slog.Warn("Failed to encode notification", "id", notification.ID, "error", err)
			continue
		}
		if err := n.sender.Send(notification.OwnerID, payload); err != nil {
			slog.Warn("Failed to push notification", "id", notification.ID, "user_id", notification.OwnerID, "error", err)
		}
	}

	if err := n.source.MarkDelivered(ctx, keys, now); err != nil {
		return 0, err
	}
	metrics.NotificationsDelivered.Add(float64(len(keys)))
	return len(keys), nil
}
