package fetch

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"psx-tracker/internal/models"
	"psx-tracker/internal/notify"
	"psx-tracker/internal/store"
)

type captureChannel struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (c *captureChannel) Name() string    { return "capture" }
func (c *captureChannel) IsEnabled() bool { return true }
func (c *captureChannel) Send(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureChannel) byType(t notify.NotificationType) []notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []notify.Notification
	for _, n := range c.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func TestWatcherSweep(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quotePage)) // every symbol quotes at 1234.50
	}))

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "watch.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.AddSymbol(ctx, "LUCKY"); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}
	if err := st.SaveAlert(ctx, &models.Alert{
		Symbol: "LUCKY", MaxPrice: 1000, Enabled: true,
	}); err != nil {
		t.Fatalf("SaveAlert: %v", err)
	}

	capture := &captureChannel{}
	notifier := notify.NewNotifier(capture)

	batcher := NewBatcher(client, 2, 1000, zerolog.Nop())
	batcher.Start()
	defer batcher.Stop()

	watcher := NewWatcher(batcher, st, notifier, time.Minute, zerolog.Nop())

	var swept []Result
	watcher.OnSweep(func(results []Result) { swept = results })

	watcher.Sweep(ctx)

	if len(swept) != 1 || swept[0].Err != nil {
		t.Fatalf("sweep results = %+v", swept)
	}

	history, err := st.GetPriceHistory(ctx, "LUCKY", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetPriceHistory: %v", err)
	}
	if len(history) != 1 || history[0].Price != 1234.50 {
		t.Errorf("history = %+v, want one sample at 1234.50", history)
	}

	alerts := capture.byType(notify.NotificationAlert)
	if len(alerts) != 1 {
		t.Fatalf("alert notifications = %d, want 1 (price above max bound)", len(alerts))
	}
	if alerts[0].Data["symbol"] != "LUCKY" {
		t.Errorf("alert data = %v", alerts[0].Data)
	}
}

func TestWatcherSweepEmptyPortfolio(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected with an empty portfolio")
	}))

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer st.Close()

	batcher := NewBatcher(client, 2, 10, zerolog.Nop())
	batcher.Start()
	defer batcher.Stop()

	watcher := NewWatcher(batcher, st, nil, time.Minute, zerolog.Nop())
	watcher.Sweep(context.Background()) // must not panic or fetch
}

func TestWatcherDisabledAlertNotDelivered(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quotePage))
	}))

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "disabled.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.AddSymbol(ctx, "LUCKY"); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}
	if err := st.SaveAlert(ctx, &models.Alert{Symbol: "LUCKY", MaxPrice: 1000, Enabled: false}); err != nil {
		t.Fatalf("SaveAlert: %v", err)
	}

	capture := &captureChannel{}
	batcher := NewBatcher(client, 2, 1000, zerolog.Nop())
	batcher.Start()
	defer batcher.Stop()

	watcher := NewWatcher(batcher, st, notify.NewNotifier(capture), time.Minute, zerolog.Nop())
	watcher.Sweep(ctx)

	if alerts := capture.byType(notify.NotificationAlert); len(alerts) != 0 {
		t.Errorf("disabled alert delivered: %+v", alerts)
	}
}
