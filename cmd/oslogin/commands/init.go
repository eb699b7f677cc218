package commands

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/internal/cli/prompt"
	"github.com/wonderfly/compute-image-packages/pkg/config"
)

var (
	initForce    bool
	initEndpoint string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Initialize an oslogin configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/oslogin/config.yaml.
Use --config to specify a custom path.

When run without --endpoint, the command prompts for the directory
endpoint interactively.

Examples:
  # Initialize with default location
  oslogin init

  # Initialize with custom path
  oslogin init --config /etc/oslogin/config.yaml

  # Non-interactive initialization
  oslogin init --endpoint http://metadata.google.internal/computeMetadata/v1/oslogin

  # Force overwrite existing config
  oslogin init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().StringVar(&initEndpoint, "endpoint", "", "Directory endpoint (prompted when omitted)")
}

func validEndpoint(input string) error {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			if initEndpoint != "" {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
			}
			overwrite, err := prompt.Confirm(fmt.Sprintf("Configuration file %s already exists. Overwrite?", configPath), false)
			if err != nil || !overwrite {
				return fmt.Errorf("initialization cancelled")
			}
		}
	}

	cfg := config.GetDefaultConfig()

	endpoint := initEndpoint
	if endpoint == "" {
		var err error
		endpoint, err = prompt.InputWithValidation("Directory endpoint", cfg.Directory.Endpoint, validEndpoint)
		if err != nil {
			if prompt.IsAborted(err) {
				return fmt.Errorf("initialization cancelled")
			}
			return fmt.Errorf("failed to read endpoint: %w", err)
		}
	}
	cfg.Directory.Endpoint = endpoint

	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Look up a user with: oslogin user show <name>")
	fmt.Printf("  3. Or specify custom config: oslogin --config %s user list\n", configPath)

	return nil
}
