package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/pkg/config"
	"github.com/wonderfly/compute-image-packages/pkg/directory"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the oslogin configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  oslogin config validate

  # Validate specific config file
  oslogin config validate --config /etc/oslogin/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigPath

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string

	if cfg.Directory.Endpoint == directory.DefaultEndpoint {
		warnings = append(warnings, "Directory endpoint is the metadata server default - lookups only work on a GCE instance")
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		warnings = append(warnings, "Telemetry enabled without an endpoint - traces will not be exported")
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Directory endpoint: %s\n", cfg.Directory.Endpoint)
	fmt.Printf("  Request timeout:    %s\n", cfg.Directory.Timeout)
	fmt.Printf("  Page size:          %d\n", cfg.Directory.PageSize)
	fmt.Printf("  Log level:          %s\n", cfg.Logging.Level)

	return nil
}
