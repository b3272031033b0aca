// Package relay forwards webhook payloads to the external automation service.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/repguardian/dashboard-api/pkg/metrics"
	"github.com/repguardian/dashboard-api/pkg/tracing"
)

// SecretHeader carries the shared secret to the automation service.
const SecretHeader = "x-webhook-secret"

// ErrNotConfigured is returned when no target URL is set.
var ErrNotConfigured = errors.New("N8N_WEBHOOK_URL not set")

// maxUpstreamBody bounds how much of the upstream reply is relayed.
const maxUpstreamBody = 4 << 20

// Config describes the relay target.
type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// Forwarder posts JSON payloads to the configured URL. It never retries.
type Forwarder struct {
	cfg    Config
	client *http.Client
}

// New creates a forwarder. A nil client gets one with cfg.Timeout.
func New(cfg Config, client *http.Client) *Forwarder {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Forwarder{cfg: cfg, client: client}
}

// Upstream is the automation service's reply.
type Upstream struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (u *Upstream) OK() bool {
	return u.Status >= 200 && u.Status < 300
}

// JSON returns the body when it parses as JSON.
func (u *Upstream) JSON() (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(u.Body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

// Forward sends payload as-is. Non-2xx replies are returned, not treated as
// errors; an error means the request never completed.
func (f *Forwarder) Forward(ctx context.Context, payload json.RawMessage) (*Upstream, error) {
	if f.cfg.URL == "" {
		metrics.RecordRelay("rejected", 0)
		return nil, ErrNotConfigured
	}

	ctx, span := tracing.Start(ctx, "relay.Forward",
		attribute.Bool("relay.secret", f.cfg.Secret != ""),
		attribute.Int("relay.payload_bytes", len(payload)),
	)
	defer span.End()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRelay("transport_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if f.cfg.Secret != "" {
		req.Header.Set(SecretHeader, f.cfg.Secret)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		metrics.RecordRelay("transport_error", time.Since(start).Seconds())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		metrics.RecordRelay("transport_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("read response: %w", err)
	}

	up := &Upstream{Status: resp.StatusCode, Body: body}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	outcome := "ok"
	if !up.OK() {
		outcome = "upstream_error"
		span.SetStatus(codes.Error, resp.Status)
	}
	metrics.RecordRelay(outcome, time.Since(start).Seconds())

	return up, nil
}
