package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestSender(t *testing.T, apiKey string, handler http.HandlerFunc) Sender {
	t.Helper()
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {}
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("ONESIGNAL_ENDPOINT", server.URL)
	t.Setenv("ONESIGNAL_APP_ID", "test-app")
	t.Setenv("ONESIGNAL_REST_API_KEY", apiKey)
	return NewOneSignalClient()
}

func TestEnabledReflectsCredential(t *testing.T) {
	sender := newTestSender(t, "", nil)
	if sender.Enabled() {
		t.Fatal("sender without a REST key must report disabled")
	}

	sender = newTestSender(t, "key", nil)
	if !sender.Enabled() {
		t.Fatal("sender with a REST key must report enabled")
	}
}

func TestBroadcastSendsSingleSegmentedNotification(t *testing.T) {
	var captured map[string]interface{}
	sender := newTestSender(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Basic secret-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error(err)
		}
		w.Write([]byte(`{"id":"abc-123"}`))
	})

	id, err := sender.Broadcast(context.Background(), "تنبيه انتهاء الصلاحية", "لديكم 3 منتجات")
	if err != nil {
		t.Fatal(err)
	}
	if id != "abc-123" {
		t.Fatalf("expected provider id, got %q", id)
	}
	if captured["app_id"] != "test-app" {
		t.Fatalf("expected app id forwarded, got %v", captured["app_id"])
	}
	segments, _ := captured["included_segments"].([]interface{})
	if len(segments) != 1 || segments[0] != "Total Subscriptions" {
		t.Fatalf("expected a broadcast to all subscribers, got %v", segments)
	}
}

func TestBroadcastSurfacesProviderErrors(t *testing.T) {
	sender := newTestSender(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":["Invalid app_id format"]}`))
	})

	_, err := sender.Broadcast(context.Background(), "h", "m")
	if err == nil {
		t.Fatal("expected provider error payload to surface")
	}
	if !strings.Contains(err.Error(), "Invalid app_id format") {
		t.Fatalf("expected provider details in error, got %v", err)
	}
}
