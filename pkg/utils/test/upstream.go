package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// CapturedRequest is what the fake upstream saw for one call.
type CapturedRequest struct {
	Host   string
	Path   string
	Method string
	Header http.Header
	Body   map[string]any
}

// FakeUpstream answers every request with a fixed status and body and records
// what it received.
type FakeUpstream struct {
	server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	delay    time.Duration
	requests []CapturedRequest
}

// NewFakeUpstream starts a server that answers 200 with an empty JSON object.
func NewFakeUpstream() *FakeUpstream {
	f := &FakeUpstream{status: http.StatusOK, body: `{}`}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		f.mu.Lock()
		f.requests = append(f.requests, CapturedRequest{
			Host:   r.Header.Get("X-Original-Host"),
			Path:   r.URL.Path,
			Method: r.Method,
			Header: r.Header.Clone(),
			Body:   body,
		})
		status, respBody, delay := f.status, f.body, f.delay
		f.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	return f
}

// Respond sets the status and body for subsequent calls.
func (f *FakeUpstream) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Delay holds every response for d, or until the client gives up.
func (f *FakeUpstream) Delay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Calls returns a copy of every request received so far.
func (f *FakeUpstream) Calls() []CapturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CapturedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeUpstream) Close() {
	f.server.Close()
}

// Client returns an http.Client that sends every request to the fake
// upstream, keeping the original host in X-Original-Host.
func (f *FakeUpstream) Client() *http.Client {
	target, _ := url.Parse(f.server.URL)
	return &http.Client{Transport: &redirectTransport{target: target}}
}

type redirectTransport struct {
	target *url.URL
}

func (t *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Original-Host", req.URL.Host)
	clone.URL.Scheme = t.target.Scheme
	clone.URL.Host = t.target.Host
	clone.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(clone)
}
