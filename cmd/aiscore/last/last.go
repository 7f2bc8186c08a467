// Package lastcmder provides the last command, which shows the outcome of the
// most recent analysis.
package lastcmder

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aiscore/pkg/cliui"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dotdir"
)

type lastCommander struct {
	configDir string
	jsonOut   bool
	clear     bool
}

const lastLongDesc string = `Show the most recent analysis.

Every "aiscore analyze" run records its score, or the error it failed with,
in the .aiscore/ directory. This command shows that record.

Examples:
  aiscore last
  aiscore last --json
  aiscore last --clear`

const lastShortDesc string = "Show the most recent analysis"

func NewLastCmd() *cobra.Command {
	cmder := &lastCommander{}

	cmd := &cobra.Command{
		Use:   "last",
		Short: lastShortDesc,
		Long:  lastLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print the record as JSON")
	cmd.Flags().BoolVar(&cmder.clear, "clear", false, "Forget the recorded analysis")

	return cmd
}

func (c *lastCommander) run(out io.Writer) error {
	ddm := dotdir.NewManager()

	if c.clear {
		if err := ddm.ClearLastAnalysis(c.configDir); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Cleared last analysis\n", cliui.SuccessMark)
		return nil
	}

	state, err := ddm.LoadLastAnalysis(c.configDir)
	if err != nil {
		return err
	}

	if c.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	if state == nil {
		fmt.Fprintln(out, cliui.DimStyle.Render("No analysis recorded yet. Run \"aiscore analyze\" first."))
		return nil
	}

	fmt.Fprintf(out, "\n  %s %s\n",
		cliui.KeyStyle.Render("Recorded"),
		cliui.DimStyle.Render(state.RecordedAt.Local().Format("2006-01-02 15:04:05")),
	)

	if state.Result != nil {
		name := string(state.Result.Provider)
		if spec, err := provider.Default.Lookup(state.Result.Provider); err == nil {
			name = spec.DisplayName
		}
		cliui.RenderResult(out, state.Result, name)
		return nil
	}

	fmt.Fprintf(out, "\n  %s %s\n\n", cliui.FailMark, cliui.ErrorStyle.Render(state.Error))
	return nil
}
