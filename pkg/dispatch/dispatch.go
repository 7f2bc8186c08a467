// Package dispatch performs detection requests against the registered
// providers and folds every outcome into either a normalized detect.Result or
// a *detect.Error.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	// ConnectionTestText is the canned document sent by TestConnection.
	ConnectionTestText = "This is a test sentence to verify the API connection is working correctly. " +
		"The quick brown fox jumps over the lazy dog. " +
		"Testing API connectivity for the AI detection service."

	defaultMaxResponseBytes = 4 * 1024 * 1024
)

// Dispatcher sends one request per call to the provider selected by the
// request. It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	registry         detect.Registry
	client           *http.Client
	logger           *slog.Logger
	now              func() time.Time
	maxResponseBytes int64
}

// New creates a Dispatcher over registry. Without WithHTTPClient it uses
// http.DefaultClient, so no timeout is imposed beyond the caller's context.
func New(registry detect.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:         registry,
		client:           http.DefaultClient,
		logger:           slog.New(slog.DiscardHandler),
		now:              time.Now,
		maxResponseBytes: defaultMaxResponseBytes,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Analyze scores req.Text with the requested provider.
func (d *Dispatcher) Analyze(ctx context.Context, req detect.Request) (*detect.Result, error) {
	spec, credential, err := d.resolve(req.Provider, req.Credential)
	if err != nil {
		return nil, err
	}

	stats := detect.NewTextStats(req.Text)

	status, body, err := d.send(ctx, spec, req.Text, credential)
	if err != nil {
		return nil, withStats(err, stats)
	}

	if err := classify(spec.ID, status); err != nil {
		return nil, withStats(err, stats)
	}

	raw, err := spec.ExtractScore(body)
	if err != nil {
		return nil, &detect.Error{
			Kind:       detect.KindUpstream,
			Provider:   spec.ID,
			StatusCode: status,
			Stats:      &stats,
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}

	score := detect.Normalize(raw, spec.Scale)

	d.logger.Debug("detection scored",
		"provider", spec.ID,
		"raw", raw,
		"scale", spec.Scale.String(),
		"score", score,
	)

	return &detect.Result{
		Provider:  spec.ID,
		AIScore:   score,
		WordCount: stats.WordCount,
		CharCount: stats.CharCount,
		Timestamp: d.now(),
	}, nil
}

// TestConnection validates a credential by sending ConnectionTestText. The
// response body is ignored: any 2xx is success, 401/403 is InvalidCredential
// and every other status is reported as an upstream error.
func (d *Dispatcher) TestConnection(ctx context.Context, id detect.ProviderID, credential string) error {
	spec, credential, err := d.resolve(id, credential)
	if err != nil {
		return err
	}

	status, _, err := d.send(ctx, spec, ConnectionTestText, credential)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &detect.Error{Kind: detect.KindInvalidCredential, Provider: spec.ID, StatusCode: status}
	default:
		return &detect.Error{Kind: detect.KindUpstream, Provider: spec.ID, StatusCode: status}
	}
}

// resolve validates the credential before the provider, so a missing key is
// reported even when the provider is also wrong. A non-blank credential is
// passed through unchanged.
func (d *Dispatcher) resolve(id detect.ProviderID, credential string) (detect.Spec, string, error) {
	if strings.TrimSpace(credential) == "" {
		return detect.Spec{}, "", &detect.Error{Kind: detect.KindMissingCredential, Provider: id}
	}

	spec, err := d.registry.Lookup(id)
	if err != nil {
		var de *detect.Error
		if errors.As(err, &de) {
			return detect.Spec{}, "", err
		}
		return detect.Spec{}, "", &detect.Error{Kind: detect.KindUnknownProvider, Provider: id, Err: err}
	}

	return spec, credential, nil
}

// send performs the single HTTP exchange and returns the status and a
// size-bounded body. Only transport level failures and oversized 2xx bodies
// are returned as errors; an oversized error body is truncated so the status
// can still be classified.
func (d *Dispatcher) send(ctx context.Context, spec detect.Spec, text, credential string) (int, []byte, error) {
	payload, err := json.Marshal(spec.BuildBody(text, credential))
	if err != nil {
		return 0, nil, &detect.Error{Kind: detect.KindNetwork, Provider: spec.ID, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	method := spec.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, spec.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, &detect.Error{Kind: detect.KindNetwork, Provider: spec.ID, Err: fmt.Errorf("creating request: %w", err)}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if v := spec.Auth.HeaderValue(credential); v != "" && spec.Auth.Header != "" {
		httpReq.Header.Set(spec.Auth.Header, v)
	}

	d.logger.Debug("sending detection request",
		"provider", spec.ID,
		"endpoint", spec.Endpoint,
		"bytes", len(payload),
	)

	start := d.now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		d.logger.Debug("detection request failed", "provider", spec.ID, "error", err)
		return 0, nil, &detect.Error{Kind: detect.KindNetwork, Provider: spec.ID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxResponseBytes+1))
	if err != nil {
		return 0, nil, &detect.Error{Kind: detect.KindNetwork, Provider: spec.ID, Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(body)) > d.maxResponseBytes {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resp.StatusCode, body[:d.maxResponseBytes], nil
		}
		return 0, nil, &detect.Error{
			Kind:       detect.KindUpstream,
			Provider:   spec.ID,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response exceeded limit (%d bytes)", d.maxResponseBytes),
		}
	}

	d.logger.Debug("detection response received",
		"provider", spec.ID,
		"status", resp.StatusCode,
		"duration", d.now().Sub(start),
	)

	return resp.StatusCode, body, nil
}

// classify maps a non-2xx status onto the error taxonomy.
func classify(id detect.ProviderID, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &detect.Error{Kind: detect.KindInvalidCredential, Provider: id, StatusCode: status}
	case status == http.StatusTooManyRequests:
		return &detect.Error{Kind: detect.KindRateLimited, Provider: id, StatusCode: status}
	default:
		return &detect.Error{Kind: detect.KindUpstream, Provider: id, StatusCode: status}
	}
}

func withStats(err error, stats detect.TextStats) error {
	var de *detect.Error
	if errors.As(err, &de) {
		de.Stats = &stats
	}
	return err
}
