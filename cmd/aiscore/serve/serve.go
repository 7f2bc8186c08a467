// Package servecmder provides the serve command, which runs the aiscore HTTP
// API and its MCP endpoint.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aiscore/api"
	"github.com/papercomputeco/aiscore/cmd/aiscore/stack"
	"github.com/papercomputeco/aiscore/pkg/config"
	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/logger"
)

// httpClient is used for provider calls; nil means http.DefaultClient.
var httpClient *http.Client

type serveCommander struct {
	configDir  string
	debug      bool
	jsonLogs   bool
	logFile    string
	disableMCP bool

	listen       string
	provider     string
	timeout      string
	minChars     uint
	history      bool
	driver       string
	sqlitePath   string
	postgresDSN  string
	kafkaBrokers string
	kafkaTopic   string

	cfg *config.Config
}

const serveLongDesc string = `Run the aiscore API server.

Serves the detection service over HTTP:
  GET  /ping                 Health check
  GET  /v1/providers         Supported providers
  POST /v1/analyze           Score text: {"text", "provider", "api_key"}
  POST /v1/test              Test a provider API key
  GET  /v1/history           Recorded analyses (when history is enabled)
  GET  /v1/history/:id       A single recorded analysis
  /mcp                       MCP streamable HTTP endpoint

API keys not sent with a request are taken from AISCORE_<PROVIDER>_API_KEY
or the keys stored with "aiscore auth".

Examples:
  aiscore serve
  aiscore serve --listen :9000 --history --sqlite ./history.db
  aiscore serve --kafka-brokers localhost:9092`

const serveShortDesc string = "Run the aiscore API server"

var flagKeys = []string{
	config.FlagAPIListen,
	config.FlagProvider,
	config.FlagTimeout,
	config.FlagMinChars,
	config.FlagHistory,
	config.FlagHistoryDriver,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Emit logs as JSON")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON logs to this file")
	cmd.Flags().BoolVar(&cmder.disableMCP, "no-mcp", false, "Do not mount the MCP endpoint")
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddUintFlag(cmd, config.Flags, config.FlagMinChars, &cmder.minChars)
	config.AddBoolFlag(cmd, config.Flags, config.FlagHistory, &cmder.history)
	config.AddStringFlag(cmd, config.Flags, config.FlagHistoryDriver, &cmder.driver)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.kafkaTopic)

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var logOut io.Writer
	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := newLogger(cmd.ErrOrStderr(), logOut, c.debug, c.jsonLogs)

	keys, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	st, err := stack.New(ctx, stack.Opts{
		Config:     c.cfg,
		ConfigDir:  c.configDir,
		Keys:       keys,
		HTTPClient: httpClient,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing analysis stack", "error", err)
		}
	}()

	server, err := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
		DisableMCP: c.disableMCP,
	}, st.Service, st.History, log)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	log.Info("serving detection API",
		"listen", c.cfg.API.Listen,
		"default_provider", st.Service.DefaultProvider(),
		"history", st.History != nil,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context done, shutting down")
	}

	if err := server.Shutdown(); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// newLogger builds the server logger. With a log file, JSON records are
// appended to it alongside the console output; debug runs include the
// source location in the file.
func newLogger(console, file io.Writer, debug, jsonLogs bool) *slog.Logger {
	if file == nil {
		return logger.New(
			logger.WithDebug(debug),
			logger.WithPretty(!jsonLogs),
			logger.WithJSON(jsonLogs),
			logger.WithWriter(console),
		)
	}

	if jsonLogs {
		return logger.New(
			logger.WithDebug(debug),
			logger.WithJSON(true),
			logger.WithSource(debug),
			logger.WithWriters(console, file),
		)
	}

	return logger.Multi(
		logger.New(
			logger.WithDebug(debug),
			logger.WithPretty(true),
			logger.WithWriter(console),
		),
		logger.New(
			logger.WithDebug(debug),
			logger.WithJSON(true),
			logger.WithSource(debug),
			logger.WithWriter(file),
		),
	)
}
