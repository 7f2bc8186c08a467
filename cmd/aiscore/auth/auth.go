// Package authcmder provides the auth command for storing provider API keys.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/aiscore/pkg/cliui"
	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
)

const authLongDesc string = `Store API keys for AI detection providers.

Keys are stored in credentials.toml (mode 0600) in the .aiscore/ directory
and used by "aiscore analyze", "aiscore test" and "aiscore serve" when no
--api-key flag or AISCORE_<PROVIDER>_API_KEY variable is set.

Supported providers: gptzero, originality, sapling, copyleaks, zerogpt,
writer, contentatscale

Examples:
  aiscore auth gptzero               Prompt for a GPTZero API key
  aiscore auth --list                List stored credentials
  aiscore auth --remove sapling      Remove the stored Sapling key
  echo $KEY | aiscore auth zerogpt   Pipe an API key from stdin`

const authShortDesc string = "Store API keys for detection providers"

func NewAuthCmd() *cobra.Command {
	var listFlag bool
	var removeFlag string

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			out := cmd.OutOrStdout()

			switch {
			case listFlag:
				return runList(out, configDir)
			case removeFlag != "":
				return runRemove(out, removeFlag, configDir)
			default:
				if len(args) == 0 {
					return fmt.Errorf("provider argument required\n\nSupported providers: %s",
						strings.Join(credentials.SupportedProviders(), ", "))
				}
				return runAuth(cmd, args[0], configDir)
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&listFlag, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&removeFlag, "remove", "", "Remove stored credentials for a provider")

	return cmd
}

func runAuth(cmd *cobra.Command, name, configDir string) error {
	if !credentials.IsSupportedProvider(name) {
		return fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s",
			name, strings.Join(credentials.SupportedProviders(), ", "))
	}
	id := detect.ParseProviderID(name)

	apiKey, err := readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr(), id)
	if err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.SetKey(id, apiKey); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s Stored %s API key %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(string(id)),
		cliui.DimStyle.Render("("+mgr.GetTarget()+")"),
	)
	fmt.Fprintf(out, "  %s Run 'aiscore test %s' to verify it.\n\n", cliui.DimStyle.Render(" "), id)
	return nil
}

func runList(out io.Writer, configDir string) error {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	providers, err := mgr.ListProviders()
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		fmt.Fprintf(out, "\n  %s No stored credentials.\n", cliui.DimStyle.Render("●"))
		fmt.Fprintf(out, "  Use 'aiscore auth <provider>' to store an API key.\n")
		fmt.Fprintf(out, "  Supported providers: %s\n\n", strings.Join(credentials.SupportedProviders(), ", "))
		return nil
	}

	fmt.Fprintf(out, "\n  %s\n\n", cliui.HeaderStyle.Render("Stored credentials"))
	for _, p := range providers {
		envVar := credentials.EnvVarForProvider(p)
		if envVar != "" {
			fmt.Fprintf(out, "  %s  %s  %s\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(string(p)),
				cliui.DimStyle.Render("overridden by "+envVar),
			)
		} else {
			fmt.Fprintf(out, "  %s  %s\n", cliui.SuccessMark, cliui.NameStyle.Render(string(p)))
		}
	}
	fmt.Fprintln(out)

	return nil
}

func runRemove(out io.Writer, name, configDir string) error {
	id := detect.ParseProviderID(name)

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.RemoveKey(id); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n  %s Removed %s credentials.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(string(id)))

	return nil
}

// readAPIKey reads an API key from in. When in is an interactive terminal the
// key is prompted for with hidden input; otherwise the first line is used.
func readAPIKey(in io.Reader, prompt io.Writer, id detect.ProviderID) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		keyURL := ""
		if spec, err := provider.Default.Lookup(id); err == nil {
			keyURL = spec.KeyURL
		}
		if keyURL != "" {
			fmt.Fprintf(prompt, "Get a key at %s\n", keyURL)
		}
		fmt.Fprintf(prompt, "Enter API key for %s: ", id)

		keyBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
