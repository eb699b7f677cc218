package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/internal/cli/output"
	"github.com/wonderfly/compute-image-packages/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the current oslogin configuration.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show default config as YAML
  oslogin config show

  # Show as JSON
  oslogin config show --output json

  # Show specific config file
  oslogin config show --config /etc/oslogin/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVar(&showOutput, "output", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(cmdutil.Flags.ConfigPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
