// Package notify delivers alert and fetch notifications to the configured
// channels.
package notify

import (
	"context"
	"time"

	"psx-tracker/internal/models"
)

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationAlert   NotificationType = "alert"
	NotificationError   NotificationType = "error"
	NotificationSummary NotificationType = "summary"
)

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notifier fans notifications out to every enabled channel. A channel
// failure is isolated: the remaining channels still receive the message.
type Notifier struct {
	channels []Channel
}

// NewNotifier creates a notifier over the given channels.
func NewNotifier(channels ...Channel) *Notifier {
	return &Notifier{channels: channels}
}

// Send delivers a notification to all enabled channels and returns the last
// delivery error, if any.
func (n *Notifier) Send(ctx context.Context, msg Notification) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	var lastErr error
	for _, ch := range n.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, msg); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// SendAlert reports a triggered price alert.
func (n *Notifier) SendAlert(ctx context.Context, alert models.Alert, price float64) error {
	return n.Send(ctx, Notification{
		Type:    NotificationAlert,
		Title:   "Price alert: " + alert.Symbol,
		Message: formatAlertMessage(alert, price),
		Data: map[string]interface{}{
			"symbol":    alert.Symbol,
			"min_price": alert.MinPrice,
			"max_price": alert.MaxPrice,
			"price":     price,
		},
	})
}

// SendFetchSummary reports the outcome of one batch sweep.
func (n *Notifier) SendFetchSummary(ctx context.Context, fetched, failed int) error {
	return n.Send(ctx, Notification{
		Type:    NotificationSummary,
		Title:   "Fetch sweep complete",
		Message: formatSweepMessage(fetched, failed),
		Data: map[string]interface{}{
			"fetched": fetched,
			"failed":  failed,
		},
	})
}
