package servecmder

import "net/http"

// SetHTTPClient swaps the client used for provider calls and returns a
// function restoring the previous one.
func SetHTTPClient(c *http.Client) func() {
	prev := httpClient
	httpClient = c
	return func() { httpClient = prev }
}

// NewLogger exposes the server logger construction.
var NewLogger = newLogger
