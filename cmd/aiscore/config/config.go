// Package configcmder provides the config command for managing persistent
// aiscore configuration stored in the .aiscore/ directory.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aiscore/pkg/config"
)

const configLongDesc string = `Manage persistent aiscore configuration.

Configuration is stored as config.toml in the .aiscore/ directory and provides
default values for command flags. CLI flags and AISCORE_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  detector.provider, detector.timeout, detector.min_chars,
  api.listen, client.api_target,
  history.enabled, history.driver, history.sqlite_path, history.postgres_dsn,
  events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  aiscore config set <key> <value>    Set a configuration value
  aiscore config get <key>            Get a configuration value
  aiscore config list                 List all configuration values

Examples:
  aiscore config set detector.provider sapling
  aiscore config set history.enabled true
  aiscore config get detector.provider
  aiscore config list`

const configShortDesc string = "Manage persistent aiscore configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
