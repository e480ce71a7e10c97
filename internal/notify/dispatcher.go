// Package notify delivers HMAC-signed webhook notifications for run
// lifecycle events. A single endpoint is configured; no endpoint means no
// dispatcher and the pipeline runs silent.
package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dropforge/dropforge/internal/config"
)

type Dispatcher struct {
	url        string
	secret     string
	httpClient *http.Client
	deliveries chan delivery
}

type delivery struct {
	id      uuid.UUID
	event   string
	payload []byte
}

// NewDispatcher returns nil when no webhook URL is configured; callers
// treat a nil dispatcher as the feature being off.
func NewDispatcher(cfg config.NotifyConfig) *Dispatcher {
	if cfg.WebhookURL == "" {
		return nil
	}
	d := &Dispatcher{
		url:    cfg.WebhookURL,
		secret: cfg.WebhookSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		deliveries: make(chan delivery, 100),
	}
	go d.processLoop()
	return d
}

// Dispatch queues one event for delivery. It never blocks the caller: a
// full queue drops the event with a warning.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, payload any) {
	body, err := json.Marshal(map[string]any{
		"event":     event,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data":      payload,
	})
	if err != nil {
		slog.Error("marshaling webhook payload", "event", event, "error", err)
		return
	}
	select {
	case d.deliveries <- delivery{id: uuid.New(), event: event, payload: body}:
	default:
		slog.Warn("webhook delivery queue full, dropping", "event", event)
	}
}

func (d *Dispatcher) processLoop() {
	for req := range d.deliveries {
		d.deliver(req)
	}
}

func (d *Dispatcher) deliver(req delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", d.url, bytes.NewReader(req.payload))
	if err != nil {
		slog.Error("webhook request creation failed", "error", err)
		return
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Webhook-Event", req.event)
	httpReq.Header.Set("X-Webhook-ID", req.id.String())
	if d.secret != "" {
		httpReq.Header.Set("X-Webhook-Signature", Sign(req.payload, d.secret))
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		slog.Error("webhook delivery failed", "event", req.event, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		slog.Warn("webhook received non-success response", "event", req.event, "status", resp.StatusCode)
	}
}

// Sign computes the sha256 HMAC header value receivers verify against.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}
