package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"psx-tracker/internal/models"
	"psx-tracker/pkg/utils"
)

// TerminalChannel prints notifications to the terminal.
type TerminalChannel struct {
	out     io.Writer
	enabled bool
}

// NewTerminalChannel creates a terminal channel writing to stdout.
func NewTerminalChannel(enabled bool) *TerminalChannel {
	return &TerminalChannel{out: os.Stdout, enabled: enabled}
}

// Name returns the channel name.
func (c *TerminalChannel) Name() string { return "terminal" }

// IsEnabled reports whether the channel is active.
func (c *TerminalChannel) IsEnabled() bool { return c.enabled }

// Send prints the notification.
func (c *TerminalChannel) Send(_ context.Context, n Notification) error {
	prefix := "•"
	switch n.Type {
	case NotificationAlert:
		prefix = "!"
	case NotificationError:
		prefix = "x"
	}
	_, err := fmt.Fprintf(c.out, "%s %s  %s\n", prefix, n.Title, n.Message)
	return err
}

func formatAlertMessage(alert models.Alert, price float64) string {
	side := "above"
	bound := alert.MaxPrice
	if alert.MinPrice > 0 && price <= alert.MinPrice {
		side = "below"
		bound = alert.MinPrice
	}
	return fmt.Sprintf("%s is at %s, %s the %s bound",
		alert.Symbol, utils.FormatPKR(price), side, utils.FormatPKR(bound))
}

func formatSweepMessage(fetched, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("%d symbols fetched", fetched)
	}
	return fmt.Sprintf("%d symbols fetched, %d failed", fetched, failed)
}
