// Package analyzecmder provides the analyze command, which scores text with
// the configured detection provider.
package analyzecmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/aiscore/cmd/aiscore/stack"
	"github.com/papercomputeco/aiscore/pkg/cliui"
	"github.com/papercomputeco/aiscore/pkg/config"
	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/dotdir"
	"github.com/papercomputeco/aiscore/pkg/logger"
	"github.com/papercomputeco/aiscore/pkg/scorer"
	"github.com/papercomputeco/aiscore/pkg/utils"
)

const maxInputBytes = 1 << 20

// httpClient is used for provider calls; nil means http.DefaultClient.
var httpClient *http.Client

type analyzeCommander struct {
	configDir string
	file      string
	apiKey    string
	jsonOut   bool
	noSave    bool
	debug     bool

	provider    string
	timeout     string
	minChars    uint
	history     bool
	kafkaBroker string

	cfg *config.Config
}

const analyzeLongDesc string = `Estimate how likely it is that text was written by AI.

Text is taken from the arguments, from --file, or from stdin when it is
piped. The score comes from one detection provider and is normalized to a
probability between 0 and 1, shown as a percentage with a verdict.

The API key is taken from --api-key, then AISCORE_<PROVIDER>_API_KEY, then
the key stored with "aiscore auth".

Examples:
  aiscore analyze "Text to check..."
  aiscore analyze --file essay.txt --provider sapling
  pbpaste | aiscore analyze --json`

const analyzeShortDesc string = "Score text for AI authorship"

var flagKeys = []string{
	config.FlagProvider,
	config.FlagTimeout,
	config.FlagMinChars,
	config.FlagHistory,
	config.FlagKafkaBrokers,
}

func NewAnalyzeCmd() *cobra.Command {
	cmder := &analyzeCommander{}

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: analyzeShortDesc,
		Long:  analyzeLongDesc,
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

			text, err := cmder.readText(cmd, args)
			if err != nil {
				return err
			}

			return cmder.run(cmd, text)
		},
	}

	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Read text from a file")
	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "API key for the provider (overrides stored credentials)")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&cmder.noSave, "no-save", false, "Do not record this analysis as the last result")
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddUintFlag(cmd, config.Flags, config.FlagMinChars, &cmder.minChars)
	config.AddBoolFlag(cmd, config.Flags, config.FlagHistory, &cmder.history)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBroker)

	_ = cmd.RegisterFlagCompletionFunc("provider", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// readText picks the input source: arguments, then --file, then piped stdin.
func (c *analyzeCommander) readText(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0:
		if c.file != "" {
			return "", errors.New("pass text as arguments or with --file, not both")
		}
		return strings.Join(args, " "), nil

	case c.file != "":
		data, err := os.ReadFile(c.file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", c.file, err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no text to analyze: pass it as an argument, with --file, or on stdin")
	}

	data, err := io.ReadAll(io.LimitReader(in, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no text to analyze: pass it as an argument, with --file, or on stdin")
	}
	return string(data), nil
}

func (c *analyzeCommander) run(cmd *cobra.Command, text string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.New(
		logger.WithLevel(cliLogLevel(c.debug)),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)

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

	svc := st.Service
	if err := svc.CheckLength(text); err != nil {
		return err
	}

	id := svc.ProviderFor(c.cfg.Detector.Provider)
	out := cmd.OutOrStdout()

	var result *detect.Result
	analyze := func() error {
		var err error
		result, err = svc.Analyze(ctx, scorer.Input{
			Text:     text,
			Provider: string(id),
			APIKey:   c.apiKey,
			Surface:  "cli",
		})
		return err
	}

	if c.jsonOut {
		err = analyze()
	} else {
		label := fmt.Sprintf("Analyzing %s with %s",
			cliui.DimStyle.Render(fmt.Sprintf("%q", utils.Truncate(strings.Join(strings.Fields(text), " "), 40))),
			displayName(svc, id),
		)
		err = cliui.Step(cmd.ErrOrStderr(), label, analyze)
	}

	c.saveLast(result, err, log)

	if err != nil {
		if c.jsonOut {
			_ = writeJSON(out, errorBody(err))
		} else {
			cliui.RenderError(out, err)
		}
		cmd.SilenceErrors = true
		return err
	}

	if c.jsonOut {
		return writeJSON(out, resultBody(result))
	}

	cliui.RenderResult(out, result, displayName(svc, result.Provider))
	return nil
}

func (c *analyzeCommander) saveLast(result *detect.Result, err error, log *slog.Logger) {
	if c.noSave {
		return
	}

	ddm := dotdir.NewManager()
	var saveErr error
	if err != nil {
		saveErr = ddm.SaveLastError(err, c.configDir)
	} else {
		saveErr = ddm.SaveLastResult(result, c.configDir)
	}
	if saveErr != nil {
		log.Warn("could not record last analysis", "error", saveErr)
	}
}

// cliLogLevel keeps setup chatter off the terminal unless --debug is set.
func cliLogLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func displayName(svc *scorer.Service, id detect.ProviderID) string {
	for _, spec := range svc.Providers() {
		if spec.ID == id {
			return spec.DisplayName
		}
	}
	return string(id)
}

type jsonResult struct {
	*detect.Result
	Percent int            `json:"percent"`
	Verdict detect.Verdict `json:"verdict"`
}

type jsonError struct {
	Error      string `json:"error"`
	Kind       string `json:"kind"`
	StatusCode int    `json:"status_code,omitempty"`
}

func resultBody(r *detect.Result) jsonResult {
	return jsonResult{Result: r, Percent: r.Percent(), Verdict: r.Verdict()}
}

func errorBody(err error) jsonError {
	return jsonError{
		Error:      detect.Message(err),
		Kind:       detect.KindOf(err).String(),
		StatusCode: detect.StatusCodeOf(err),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
