// Package api provides the HTTP API server for running AI-text detection and
// browsing analysis history.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// DisableMCP leaves the /mcp endpoint unmounted.
	DisableMCP bool
}
