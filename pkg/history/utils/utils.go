// Package historyutils builds a history.Driver from configuration.
package historyutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/aiscore/pkg/history"
	"github.com/papercomputeco/aiscore/pkg/history/inmemory"
	"github.com/papercomputeco/aiscore/pkg/history/postgres"
	"github.com/papercomputeco/aiscore/pkg/history/sqlite"
)

const (
	DriverInMemory = "inmemory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type NewDriverOpts struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	Logger      *slog.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (history.Driver, error) {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	switch o.Driver {
	case DriverInMemory, "":
		log.Info("using in-memory history")
		return inmemory.NewDriver(), nil

	case DriverSQLite:
		if o.SQLitePath == "" {
			return nil, errors.New("sqlite history requires a database path")
		}
		drv, err := sqlite.NewDriver(ctx, o.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite history: %w", err)
		}
		log.Info("using SQLite history", "path", o.SQLitePath)
		return drv, nil

	case DriverPostgres:
		if o.PostgresDSN == "" {
			return nil, errors.New("postgres history requires a connection string")
		}
		drv, err := postgres.NewDriver(ctx, o.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL history: %w", err)
		}
		log.Info("using PostgreSQL history")
		return drv, nil

	default:
		return nil, fmt.Errorf("unsupported history driver: %s", o.Driver)
	}
}
