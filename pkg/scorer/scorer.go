// Package scorer is the caller layer shared by the CLI, the HTTP API and the
// MCP server. It resolves the provider and credential for a request, applies
// the configured limits, dispatches it and hands successful results to the
// recorder.
package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dispatch"
	"github.com/papercomputeco/aiscore/pkg/worker"
)

// KeyResolver finds the credential for a provider. *credentials.Manager
// implements it.
type KeyResolver interface {
	Resolve(id detect.ProviderID, explicit string) (string, credentials.Source, error)
}

// Recorder accepts completed analyses for asynchronous persistence.
// *worker.Pool implements it.
type Recorder interface {
	Enqueue(job worker.Job) bool
}

// Config is the configuration for a Service.
type Config struct {
	Dispatcher *dispatch.Dispatcher
	Registry   *provider.Registry

	// Keys is optional. Without it only explicit credentials are used.
	Keys KeyResolver

	// Recorder is optional.
	Recorder Recorder

	// DefaultProvider is used when a request names none.
	DefaultProvider detect.ProviderID

	// Timeout bounds each provider call. Zero leaves the caller's context alone.
	Timeout time.Duration

	// MinChars refuses shorter input before any provider is contacted.
	MinChars uint

	Logger *slog.Logger
}

// Input is one analysis request as received from a surface.
type Input struct {
	Text     string
	Provider string
	APIKey   string

	// Surface names the entry point, e.g. "cli", "api" or "mcp".
	Surface string
}

// Service runs analyses for every surface.
type Service struct {
	dispatcher      *dispatch.Dispatcher
	registry        *provider.Registry
	keys            KeyResolver
	recorder        Recorder
	defaultProvider detect.ProviderID
	timeout         time.Duration
	minChars        uint
	logger          *slog.Logger
	now             func() time.Time
}

// New creates a Service. A nil Registry falls back to provider.Default and a
// nil Dispatcher to one built over that registry.
func New(c Config) *Service {
	registry := c.Registry
	if registry == nil {
		registry = provider.Default
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := c.Dispatcher
	if d == nil {
		d = dispatch.New(registry, dispatch.WithLogger(logger))
	}

	def := c.DefaultProvider
	if def == "" {
		def = provider.DefaultProvider
	}

	return &Service{
		dispatcher:      d,
		registry:        registry,
		keys:            c.Keys,
		recorder:        c.Recorder,
		defaultProvider: def,
		timeout:         c.Timeout,
		minChars:        c.MinChars,
		logger:          logger,
		now:             time.Now,
	}
}

// Analyze scores in.Text and, on success, queues the result for recording.
func (s *Service) Analyze(ctx context.Context, in Input) (*detect.Result, error) {
	if err := s.CheckLength(in.Text); err != nil {
		return nil, err
	}

	id := s.ProviderFor(in.Provider)

	key, source, err := s.credential(id, in.APIKey)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("analyzing text",
		"provider", id,
		"surface", in.Surface,
		"credential_source", string(source),
	)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := s.now()
	result, err := s.dispatcher.Analyze(ctx, detect.Request{
		Text:       in.Text,
		Provider:   id,
		Credential: key,
	})
	if err != nil {
		s.logger.Debug("analysis failed", "provider", id, "kind", detect.KindOf(err).String())
		return nil, err
	}

	if s.recorder != nil {
		if !s.recorder.Enqueue(worker.Job{Surface: in.Surface, Result: result, StartedAt: started}) {
			s.logger.Warn("analysis not recorded", "provider", id)
		}
	}

	return result, nil
}

// TestConnection checks a credential against the named provider and returns
// the provider that was tested.
func (s *Service) TestConnection(ctx context.Context, name, apiKey string) (detect.ProviderID, error) {
	id := s.ProviderFor(name)

	key, _, err := s.credential(id, apiKey)
	if err != nil {
		return id, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return id, s.dispatcher.TestConnection(ctx, id, key)
}

// Providers returns the registered provider specs in display order.
func (s *Service) Providers() []detect.Spec {
	return s.registry.Specs()
}

// DefaultProvider returns the provider used when a request names none.
func (s *Service) DefaultProvider() detect.ProviderID {
	return s.defaultProvider
}

// ProviderFor parses name, falling back to the default provider when blank.
func (s *Service) ProviderFor(name string) detect.ProviderID {
	if strings.TrimSpace(name) == "" {
		return s.defaultProvider
	}
	return detect.ParseProviderID(name)
}

// CheckLength reports a *TooShortError when text is below the configured
// minimum. Surrounding whitespace does not count.
func (s *Service) CheckLength(text string) error {
	if s.minChars == 0 {
		return nil
	}
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if uint(n) < s.minChars {
		return &TooShortError{Min: s.minChars, Got: n}
	}
	return nil
}

func (s *Service) credential(id detect.ProviderID, explicit string) (string, credentials.Source, error) {
	if s.keys == nil {
		if strings.TrimSpace(explicit) == "" {
			return "", credentials.SourceNone, nil
		}
		return explicit, credentials.SourceFlag, nil
	}

	key, source, err := s.keys.Resolve(id, explicit)
	if err != nil {
		return "", credentials.SourceNone, fmt.Errorf("resolving credential: %w", err)
	}
	return key, source, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
