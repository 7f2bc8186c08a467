// Package historycmder provides the history command, which lists recorded
// analyses from the local store or a running aiscore API server.
package historycmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aiscore/cmd/aiscore/stack"
	"github.com/papercomputeco/aiscore/pkg/cliui"
	"github.com/papercomputeco/aiscore/pkg/config"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/history"
	"github.com/papercomputeco/aiscore/pkg/logger"
)

type historyCommander struct {
	configDir string
	limit     int
	remote    bool
	jsonOut   bool
	debug     bool

	apiTarget  string
	driver     string
	sqlitePath string
	postgres   string

	cfg *config.Config
}

// ListOutput is the body of GET /v1/history.
type ListOutput struct {
	Count   int               `json:"count"`
	Records []*history.Record `json:"records"`
}

const historyLongDesc string = `List recorded analyses, most recent first.

Records are only written when history is enabled ("aiscore config set
history.enabled true" or --history on analyze and serve). By default the
local history store is read; --remote reads from a running "aiscore serve"
instance at client.api_target instead.

Pass a record id to show a single analysis.

Examples:
  aiscore history
  aiscore history --limit 5 --json
  aiscore history --remote --api-target http://localhost:8090
  aiscore history 0b6f3c1e-...`

const historyShortDesc string = "List recorded analyses"

var flagKeys = []string{
	config.FlagAPITarget,
	config.FlagHistoryDriver,
	config.FlagSQLite,
	config.FlagPostgres,
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.MaximumNArgs(1),
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
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			if cmder.limit < 0 {
				return errors.New("--limit must not be negative")
			}

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return cmder.run(cmd, id)
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", history.DefaultListLimit, "Maximum number of records to list")
	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Read history from the API server at --api-target")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print records as JSON")
	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagHistoryDriver, &cmder.driver)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgres)

	return cmd
}

func (c *historyCommander) run(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level := slog.LevelWarn
	if c.debug {
		level = slog.LevelDebug
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)

	var (
		records []*history.Record
		err     error
	)
	if c.remote {
		records, err = c.fetchRemote(ctx, id)
	} else {
		records, err = c.readLocal(ctx, id, log)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if id != "" && len(records) == 1 {
			return enc.Encode(records[0])
		}
		return enc.Encode(ListOutput{Count: len(records), Records: records})
	}

	if len(records) == 0 {
		fmt.Fprintln(out, cliui.DimStyle.Render("No analyses recorded."))
		return nil
	}

	fmt.Fprintln(out)
	for _, rec := range records {
		printRecord(out, rec)
	}
	fmt.Fprintln(out)
	return nil
}

func (c *historyCommander) readLocal(ctx context.Context, id string, log *slog.Logger) ([]*history.Record, error) {
	driver, err := stack.OpenHistory(ctx, c.cfg.History, c.configDir, log)
	if err != nil {
		return nil, err
	}
	defer driver.Close()

	if id != "" {
		rec, err := driver.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return []*history.Record{rec}, nil
	}

	return driver.List(ctx, c.limit)
}

func (c *historyCommander) fetchRemote(ctx context.Context, id string) ([]*history.Record, error) {
	target, err := url.Parse(c.cfg.Client.APITarget)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("invalid API target URL: %q", c.cfg.Client.APITarget)
	}

	if id != "" {
		target = target.JoinPath("v1", "history", id)
	} else {
		target = target.JoinPath("v1", "history")
		q := target.Query()
		q.Set("limit", strconv.Itoa(c.limit))
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating history request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to aiscore API at %s: %w", c.cfg.Client.APITarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("history request failed (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("history request failed (HTTP %d)", resp.StatusCode)
	}

	if id != "" {
		rec := &history.Record{}
		if err := json.Unmarshal(body, rec); err != nil {
			return nil, fmt.Errorf("failed to parse history response: %w", err)
		}
		return []*history.Record{rec}, nil
	}

	var output ListOutput
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}
	return output.Records, nil
}

func printRecord(out io.Writer, rec *history.Record) {
	verdict := rec.Verdict()
	fmt.Fprintf(out, "  %s  %s  %s  %s  %s\n",
		cliui.DimStyle.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")),
		cliui.NameStyle.Render(fmt.Sprintf("%-14s", rec.Provider)),
		cliui.VerdictStyle(verdict).Render(fmt.Sprintf("%3d%%", detect.Percent(rec.AIScore))),
		cliui.VerdictStyle(verdict).Render(string(verdict)),
		cliui.DimStyle.Render(fmt.Sprintf("%d words  %s", rec.WordCount, rec.ID)),
	)
}
