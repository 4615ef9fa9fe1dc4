package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"

	"github.com/diogo/chatty/internal/config"
)

// NewConfigCmd creates the config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change the settings stored in ~/.chatty/config.json.

Settings:
  dark-mode            true or false
  font-size            small, regular or large
  atlas-endpoint       URL of the ATLAS answer service
  perplexity-endpoint  base URL of the PERPLEXITY API
  perplexity-model     model name sent to PERPLEXITY
  request-timeout      seconds before a query gives up
  use-keyring          keep API keys in the OS keyring
  copy-to-clipboard    copy every 'chatty query' answer
  export-dir           where ctrl+e writes transcripts
  export-format        markdown or json, the format ctrl+e writes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	})

	return cmd
}

func runConfigShow(deps *Dependencies) error {
	cfg := deps.settings().Config()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", key, value)
	}
	return w.Flush()
}

func runConfigSet(key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	saved, _ := cfg.Get(key)
	ancli.PrintOK(fmt.Sprintf("%s set to %s\n", key, saved))
	return nil
}
