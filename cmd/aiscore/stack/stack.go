// Package stack assembles the detection service and its optional recording
// pipeline (history store, event publisher, worker pool) from configuration.
// It is shared by the commands that run analyses.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/papercomputeco/aiscore/cmd/aiscore/sqlitepath"
	"github.com/papercomputeco/aiscore/pkg/config"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dispatch"
	"github.com/papercomputeco/aiscore/pkg/eventstream"
	"github.com/papercomputeco/aiscore/pkg/eventstream/kafka"
	"github.com/papercomputeco/aiscore/pkg/eventstream/nop"
	"github.com/papercomputeco/aiscore/pkg/history"
	historyutils "github.com/papercomputeco/aiscore/pkg/history/utils"
	"github.com/papercomputeco/aiscore/pkg/scorer"
	"github.com/papercomputeco/aiscore/pkg/worker"
)

// Opts configures New.
type Opts struct {
	Config    *config.Config
	ConfigDir string

	// Keys resolves credentials. Optional.
	Keys scorer.KeyResolver

	// HTTPClient overrides the client used for provider calls. Optional.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Stack is a ready to use detection service plus everything it owns.
type Stack struct {
	Service *scorer.Service

	// History is nil when history is disabled.
	History history.Driver

	pool      *worker.Pool
	publisher eventstream.Publisher
	logger    *slog.Logger
}

// New builds a Stack. Callers must Close it to flush queued records.
func New(ctx context.Context, o Opts) (*Stack, error) {
	if o.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Stack{logger: logger}

	hist, err := newHistory(ctx, o, logger)
	if err != nil {
		return nil, err
	}
	s.History = hist

	pub, err := newPublisher(o.Config.Events, logger)
	if err != nil {
		s.closeHistory()
		return nil, err
	}
	s.publisher = pub

	s.pool, err = worker.NewPool(&worker.Config{
		History:   hist,
		Publisher: pub,
		Logger:    logger,
	})
	if err != nil {
		_ = pub.Close()
		s.closeHistory()
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	opts := []dispatch.Option{dispatch.WithLogger(logger)}
	if o.HTTPClient != nil {
		opts = append(opts, dispatch.WithHTTPClient(o.HTTPClient))
	}

	s.Service = scorer.New(scorer.Config{
		Dispatcher:      dispatch.New(provider.Default, opts...),
		Registry:        provider.Default,
		Keys:            o.Keys,
		Recorder:        s.pool,
		DefaultProvider: detect.ParseProviderID(o.Config.Detector.Provider),
		Timeout:         o.Config.Detector.TimeoutDuration(),
		MinChars:        o.Config.Detector.MinChars,
		Logger:          logger,
	})

	return s, nil
}

// Close drains the worker pool, then closes the publisher and history store.
func (s *Stack) Close() error {
	s.pool.Close()

	var errs []error
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing publisher: %w", err))
	}
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing history: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *Stack) closeHistory() {
	if s.History != nil {
		_ = s.History.Close()
	}
}

func newHistory(ctx context.Context, o Opts, logger *slog.Logger) (history.Driver, error) {
	hc := o.Config.History
	if !hc.Enabled {
		return nil, nil
	}
	return OpenHistory(ctx, hc, o.ConfigDir, logger)
}

// OpenHistory opens the configured history store regardless of whether
// recording is enabled, for commands that only read it.
func OpenHistory(ctx context.Context, hc config.HistoryConfig, configDir string, logger *slog.Logger) (history.Driver, error) {
	sqlitePath := hc.SQLitePath
	if hc.Driver == historyutils.DriverSQLite {
		var err error
		sqlitePath, err = sqlitepath.ResolveSQLitePath(hc.SQLitePath, configDir)
		if err != nil {
			return nil, err
		}
	}

	return historyutils.NewDriver(ctx, &historyutils.NewDriverOpts{
		Driver:      hc.Driver,
		SQLitePath:  sqlitePath,
		PostgresDSN: hc.PostgresDSN,
		Logger:      logger,
	})
}

func newPublisher(ec config.EventsConfig, logger *slog.Logger) (eventstream.Publisher, error) {
	brokers := ec.BrokerList()
	if len(brokers) == 0 {
		return nop.NewPublisher(), nil
	}

	pub, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   ec.Topic,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	logger.Info("publishing analysis events", "brokers", brokers, "topic", ec.Topic)
	return pub, nil
}
