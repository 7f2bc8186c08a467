// Package testconncmder provides the test command, which checks that a
// provider accepts the configured API key.
package testconncmder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aiscore/pkg/cliui"
	"github.com/papercomputeco/aiscore/pkg/config"
	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dispatch"
	"github.com/papercomputeco/aiscore/pkg/scorer"
)

// httpClient is used for provider calls; nil means http.DefaultClient.
var httpClient *http.Client

type testCommander struct {
	configDir string
	apiKey    string
	timeout   string

	cfg *config.Config
}

const testLongDesc string = `Test the connection to a detection provider.

Sends a short canned passage with the resolved API key and reports whether
the provider accepted it. Nothing is recorded. The provider defaults to the
configured one.

Examples:
  aiscore test
  aiscore test originality
  aiscore test sapling --api-key $KEY`

const testShortDesc string = "Test a provider API key"

func NewTestCmd() *cobra.Command {
	cmder := &testCommander{}

	cmd := &cobra.Command{
		Use:   "test [provider]",
		Short: testShortDesc,
		Long:  testLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagTimeout})
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return cmder.run(cmd, name)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "API key to test (overrides stored credentials)")
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	return cmd
}

func (c *testCommander) run(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	keys, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	svc := scorer.New(scorer.Config{
		Dispatcher:      dispatch.New(provider.Default, dispatch.WithHTTPClient(httpClient)),
		Keys:            keys,
		DefaultProvider: detect.ParseProviderID(c.cfg.Detector.Provider),
		Timeout:         c.cfg.Detector.TimeoutDuration(),
		Logger:          slog.New(slog.DiscardHandler),
	})

	id := svc.ProviderFor(name)
	label := "Testing " + cliui.NameStyle.Render(string(id)) + " connection"

	err = cliui.Step(cmd.ErrOrStderr(), label, func() error {
		_, err := svc.TestConnection(ctx, name, c.apiKey)
		return err
	})
	if err != nil {
		cliui.RenderError(cmd.OutOrStdout(), err)
		cmd.SilenceErrors = true
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Connection successful! API key is valid.\n\n", cliui.SuccessMark)
	return nil
}
