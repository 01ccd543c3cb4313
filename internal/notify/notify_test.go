package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"psx-tracker/internal/models"
)

func TestTerminalChannelAlert(t *testing.T) {
	var buf bytes.Buffer
	ch := &TerminalChannel{out: &buf, enabled: true}
	n := NewNotifier(ch)

	alert := models.Alert{Symbol: "LUCKY", MinPrice: 700, Enabled: true}
	if err := n.SendAlert(context.Background(), alert, 650); err != nil {
		t.Fatalf("SendAlert: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "LUCKY") || !strings.Contains(out, "below") {
		t.Errorf("output = %q, want symbol and direction", out)
	}
	if !strings.Contains(out, "Rs. 650.00") {
		t.Errorf("output = %q, want formatted price", out)
	}
}

func TestWebhookChannel(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	ch := NewWebhookChannel(server.URL, true)
	n := NewNotifier(ch)

	if err := n.SendFetchSummary(context.Background(), 10, 2); err != nil {
		t.Fatalf("SendFetchSummary: %v", err)
	}
	if received["type"] != "summary" {
		t.Errorf("type = %v", received["type"])
	}
	data, _ := received["data"].(map[string]interface{})
	if data["fetched"] != float64(10) || data["failed"] != float64(2) {
		t.Errorf("data = %v", data)
	}
}

func TestWebhookChannelDisabledWithoutURL(t *testing.T) {
	ch := NewWebhookChannel("", true)
	if ch.IsEnabled() {
		t.Error("webhook with no URL must stay disabled")
	}
}

func TestNotifierSkipsDisabledChannels(t *testing.T) {
	var buf bytes.Buffer
	ch := &TerminalChannel{out: &buf, enabled: false}
	n := NewNotifier(ch)

	if err := n.SendFetchSummary(context.Background(), 1, 0); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled channel wrote output: %q", buf.String())
	}
}
