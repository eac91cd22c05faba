// internal/webhook/notifier.go
//
// Outbound automation notifier.
//
// Context
// -------
// Back-office events (new lead, new visit, new evaluation request, visit
// reminder) are forwarded as JSON POSTs to an operator-configured
// automation gateway (n8n-style).  Delivery is strictly fire-and-forget:
// a failure is logged and counted, never retried, and never surfaces to
// the visitor whose action triggered it.
//
// Payload shape
// -------------
//
//	{
//	  "event":       "new_lead",
//	  "leadName":    "Ana",
//	  "leadPhone":   "+55…",
//	  "property":    "a2f1…",          // property code, optional
//	  "whatsappUrl": "https://wa.me/…",
//	  "brokerName":  "…",
//	  "brokerPhone": "…",
//	  "timestamp":   "2026-08-30T12:00:00Z"
//	}
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/brokerkit/brokerkit/internal/config"
	"github.com/brokerkit/brokerkit/internal/metrics"
	"github.com/brokerkit/brokerkit/internal/whatsapp"
)

// Event names the automation flows the gateway understands.
type Event string

const (
	EventNewLead       Event = "new_lead"
	EventNewVisit      Event = "new_visit"
	EventNewEvaluation Event = "new_evaluation"
	EventReminder      Event = "reminder"
)

// Payload is the JSON document POSTed to the gateway.
type Payload struct {
	Event       Event     `json:"event"`
	LeadName    string    `json:"leadName,omitempty"`
	LeadPhone   string    `json:"leadPhone,omitempty"`
	Property    string    `json:"property,omitempty"`
	WhatsAppURL string    `json:"whatsappUrl,omitempty"`
	BrokerName  string    `json:"brokerName"`
	BrokerPhone string    `json:"brokerPhone"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier posts events to the configured automation URLs.
type Notifier struct {
	cfg    config.Automation
	broker config.Broker
	client *http.Client
}

// New builds a Notifier from the loaded configuration.
func New(cfg config.Automation, broker config.Broker) *Notifier {
	return &Notifier{
		cfg:    cfg,
		broker: broker,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify fills in broker identity plus timestamp and delivers the event.
// The returned error exists for tests and callers that want to log extra
// context; production call sites ignore it by design of the event flow.
func (n *Notifier) Notify(ctx context.Context, ev Event, p Payload) error {
	url := n.urlFor(ev)
	if url == "" {
		return nil // forwarding disabled
	}

	p.Event = ev
	p.BrokerName = n.broker.Name
	p.BrokerPhone = n.broker.Phone
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	if p.WhatsAppURL == "" && p.LeadPhone != "" {
		p.WhatsAppURL = whatsapp.DeepLink(p.LeadPhone, "")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.fail(ev, url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("webhook %s: status %d", ev, resp.StatusCode)
		n.fail(ev, url, err)
		return err
	}

	zap.L().Info("webhook delivered",
		zap.String("event", string(ev)),
		zap.String("url", url))
	return nil
}

// urlFor picks the per-event override, falling back to the base URL.
func (n *Notifier) urlFor(ev Event) string {
	if u, ok := n.cfg.EventURLs[string(ev)]; ok && u != "" {
		return u
	}
	return n.cfg.URL
}

func (n *Notifier) fail(ev Event, url string, err error) {
	metrics.WebhookFailuresTotal.WithLabelValues(string(ev)).Inc()
	zap.L().Warn("webhook delivery failed",
		zap.String("event", string(ev)),
		zap.String("url", url),
		zap.Error(err))
}
