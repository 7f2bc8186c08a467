// Package aiscorecmder is the root aiscore command.
package aiscorecmder

import (
	"github.com/spf13/cobra"

	analyzecmder "github.com/papercomputeco/aiscore/cmd/aiscore/analyze"
	authcmder "github.com/papercomputeco/aiscore/cmd/aiscore/auth"
	configcmder "github.com/papercomputeco/aiscore/cmd/aiscore/config"
	historycmder "github.com/papercomputeco/aiscore/cmd/aiscore/history"
	lastcmder "github.com/papercomputeco/aiscore/cmd/aiscore/last"
	providerscmder "github.com/papercomputeco/aiscore/cmd/aiscore/providers"
	servecmder "github.com/papercomputeco/aiscore/cmd/aiscore/serve"
	testconncmder "github.com/papercomputeco/aiscore/cmd/aiscore/testconn"
	versioncmder "github.com/papercomputeco/aiscore/cmd/aiscore/version"
)

const aiscoreLongDesc string = `aiscore estimates how likely it is that text was written by AI.

Text is scored by one of several third party detection services and the
result is normalized to a probability between 0 and 1.

Get started:
  aiscore auth gptzero        Store an API key
  aiscore analyze "..."       Score some text
  aiscore serve               Run the HTTP API and MCP server`

const aiscoreShortDesc string = "aiscore - AI text detection"

func NewAIScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "aiscore",
		Short:        aiscoreShortDesc,
		Long:         aiscoreLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .aiscore/ config directory")

	cmd.AddCommand(analyzecmder.NewAnalyzeCmd())
	cmd.AddCommand(testconncmder.NewTestCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(providerscmder.NewProvidersCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(lastcmder.NewLastCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
