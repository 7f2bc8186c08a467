// Package providerscmder provides the providers command, which lists the
// supported detection services.
package providerscmder

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aiscore/pkg/cliui"
	"github.com/papercomputeco/aiscore/pkg/config"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
)

type providersCommander struct {
	jsonOut bool
	plain   bool

	cfg *config.Config
}

// Entry is one provider in the JSON listing.
type Entry struct {
	ID      detect.ProviderID `json:"id"`
	Name    string            `json:"name"`
	KeyURL  string            `json:"key_url"`
	Scale   string            `json:"scale"`
	Default bool              `json:"default"`
}

const providersLongDesc string = `List the supported AI detection providers.

Shows each provider id, its display name, where to get an API key and the
score scale it reports. The configured default provider is marked.

Examples:
  aiscore providers
  aiscore providers --json`

const providersShortDesc string = "List detection providers"

func NewProvidersCmd() *cobra.Command {
	cmder := &providersCommander{}

	cmd := &cobra.Command{
		Use:   "providers",
		Short: providersShortDesc,
		Long:  providersLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print the providers as JSON")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the markdown table without rendering")

	return cmd
}

func (c *providersCommander) run(out io.Writer) error {
	entries := List(provider.Default, detect.ParseProviderID(c.cfg.Detector.Provider))

	if c.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	table := Markdown(entries)
	if c.plain {
		_, err := fmt.Fprint(out, table)
		return err
	}

	rendered, err := cliui.RenderMarkdown(table)
	if err != nil {
		return fmt.Errorf("rendering providers: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

// List describes every provider in registry order. A def that is not
// registered falls back to provider.DefaultProvider.
func List(r *provider.Registry, def detect.ProviderID) []Entry {
	if _, err := r.Lookup(def); err != nil {
		def = provider.DefaultProvider
	}

	specs := r.Specs()
	entries := make([]Entry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, Entry{
			ID:      s.ID,
			Name:    s.DisplayName,
			KeyURL:  s.KeyURL,
			Scale:   s.Scale.String(),
			Default: s.ID == def,
		})
	}
	return entries
}

// Markdown renders entries as a markdown table.
func Markdown(entries []Entry) string {
	var b strings.Builder
	b.WriteString("# Providers\n\n")
	b.WriteString("| id | name | API key | scale |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, e := range entries {
		id := "`" + string(e.ID) + "`"
		if e.Default {
			id += " (default)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", id, e.Name, e.KeyURL, e.Scale)
	}
	return b.String()
}
