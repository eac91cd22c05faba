// internal/ai/client.go
//
// Generative endpoint client.
//
// Context
// -------
// The back office offers assisted copywriting (listing descriptions,
// section text) and image generation against an OpenAI-compatible HTTP
// endpoint.  The upstream provider signals quota and billing problems
// with well-known error strings; those are mapped onto sentinel errors
// so handlers can show the provider's message to the operator verbatim
// while still branching on the category.
//
// Notes
// -----
//   - Text goes through /v1/chat/completions, images through
//     /v1/images/generations with b64_json response format.
//   - Requests carry a generous timeout: image generation routinely
//     takes tens of seconds.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brokerkit/brokerkit/internal/config"
	"github.com/brokerkit/brokerkit/internal/metrics"
)

// Sentinel categories for upstream failures.  Err() on the returned
// *APIError unwraps to one of these when the provider message matches.
var (
	ErrQuotaExceeded   = errors.New("ai: quota exceeded")
	ErrBillingRequired = errors.New("ai: billing required")
)

// APIError carries the provider's error message untouched.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.kind }

// Client talks to the configured generative endpoint.
type Client struct {
	cfg    config.AI
	client *http.Client
}

// New builds a Client from the loaded configuration.
func New(cfg config.AI) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

// Enabled reports whether the endpoint is configured at all.
func (c *Client) Enabled() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

// chat completion wire types (request and the slice of the response we
// actually read).
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// GenerateText sends prompt through the chat completion endpoint and
// returns the first choice's content.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("ai: endpoint not configured")
	}

	var out chatResponse
	err := c.post(ctx, "/v1/chat/completions", chatRequest{
		Model: c.cfg.TextModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}, &out)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("text", "error").Inc()
		return "", err
	}
	if len(out.Choices) == 0 {
		metrics.AIRequestsTotal.WithLabelValues("text", "error").Inc()
		return "", errors.New("ai: empty completion")
	}

	metrics.AIRequestsTotal.WithLabelValues("text", "ok").Inc()
	return out.Choices[0].Message.Content, nil
}

// GenerateImage sends prompt through the image endpoint and returns the
// raw base64 payload of the first generated image.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("ai: endpoint not configured")
	}

	var out imageResponse
	err := c.post(ctx, "/v1/images/generations", imageRequest{
		Model:          c.cfg.ImageModel,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: "b64_json",
	}, &out)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("image", "error").Inc()
		return "", err
	}
	if len(out.Data) == 0 {
		metrics.AIRequestsTotal.WithLabelValues("image", "error").Inc()
		return "", errors.New("ai: empty image response")
	}

	metrics.AIRequestsTotal.WithLabelValues("image", "ok").Inc()
	return out.Data[0].B64JSON, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError classifies an upstream error response while preserving the
// provider's message verbatim.
func (c *Client) apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	msg := strings.TrimSpace(string(raw))
	code := ""
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
		code = er.Error.Code
	}
	if msg == "" {
		msg = fmt.Sprintf("ai: upstream status %d", resp.StatusCode)
	}

	return &APIError{
		Status:  resp.StatusCode,
		Message: msg,
		kind:    classify(resp.StatusCode, code, msg),
	}
}

func classify(status int, code, msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case code == "insufficient_quota",
		strings.Contains(lower, "quota"):
		return ErrQuotaExceeded
	case code == "billing_not_active",
		strings.Contains(lower, "billing"),
		status == http.StatusPaymentRequired:
		return ErrBillingRequired
	}
	return nil
}
