// internal/webhook/notifier_test.go
//
// Unit-tests for the automation notifier against an httptest server.

package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brokerkit/brokerkit/internal/config"
)

func TestNotify_PostsPayload(t *testing.T) {
	var got Payload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	n := New(config.Automation{URL: srv.URL},
		config.Broker{Name: "Carla", Phone: "+55 11 97777-0000"})

	err := n.Notify(context.Background(), EventNewLead, Payload{
		LeadName:  "Ana",
		LeadPhone: "+55 11 98888-7777",
		Property:  "prop-1",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if got.Event != EventNewLead {
		t.Errorf("event = %q", got.Event)
	}
	if got.BrokerName != "Carla" {
		t.Errorf("broker = %q", got.BrokerName)
	}
	if got.WhatsAppURL == "" {
		t.Error("whatsapp deep link not derived from lead phone")
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not filled")
	}
}

func TestNotify_EventOverrideURL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	n := New(config.Automation{
		URL:       "http://127.0.0.1:1", // unreachable base
		EventURLs: map[string]string{string(EventReminder): srv.URL},
	}, config.Broker{Name: "Carla", Phone: "x"})

	if err := n.Notify(context.Background(), EventReminder, Payload{}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestNotify_DisabledWhenUnconfigured(t *testing.T) {
	n := New(config.Automation{}, config.Broker{Name: "Carla", Phone: "x"})
	if err := n.Notify(context.Background(), EventNewVisit, Payload{}); err != nil {
		t.Fatalf("unconfigured notifier should be a no-op, got %v", err)
	}
}

func TestNotify_FailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(config.Automation{URL: srv.URL}, config.Broker{Name: "Carla", Phone: "x"})
	if err := n.Notify(context.Background(), EventNewLead, Payload{}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
