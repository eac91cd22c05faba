// internal/whatsapp/gateway.go
//
// Evolution-style WhatsApp gateway client.
//
// Context
// -------
// The gateway exposes a small REST surface: POST /message/sendText/{instance}
// delivers a templated text, and GET /instance/fetchInstances enumerates the
// instances the API key can drive (the settings screen uses that as its
// connection test).  Authentication is a bare `apikey` header.
//
// Failures are returned to the caller verbatim; nothing here retries.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Gateway talks to one Evolution-style endpoint.  Construct with NewGateway;
// the zero value is unusable.
type Gateway struct {
	settings Settings
	client   *http.Client
}

// NewGateway builds a client for the given settings.
func NewGateway(s Settings) *Gateway {
	return &Gateway{
		settings: s,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Instance describes one gateway instance from the connection test.
type Instance struct {
	Name   string `json:"instanceName"`
	Status string `json:"status"`
}

// SendText delivers a text message to the given number through the
// configured instance.
func (g *Gateway) SendText(ctx context.Context, number, text string) error {
	if !g.settings.Complete() {
		return fmt.Errorf("gateway settings incomplete")
	}

	payload, err := json.Marshal(map[string]any{
		"number": digitsOnly(number),
		"text":   text,
	})
	if err != nil {
		return err
	}

	url := strings.TrimRight(g.settings.BaseURL, "/") +
		"/message/sendText/" + g.settings.Instance
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.settings.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway send: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// ListInstances enumerates the instances visible to the API key.  The
// settings screen shows the result as its connection diagnostic.
func (g *Gateway) ListInstances(ctx context.Context) ([]Instance, error) {
	if g.settings.BaseURL == "" || g.settings.APIKey == "" {
		return nil, fmt.Errorf("gateway settings incomplete")
	}

	url := strings.TrimRight(g.settings.BaseURL, "/") + "/instance/fetchInstances"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", g.settings.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gateway connect: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out []Instance
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gateway connect: decode: %w", err)
	}
	return out, nil
}
