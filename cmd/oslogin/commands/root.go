// Package commands implements the CLI commands for the oslogin tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	configcmd "github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/config"
	usercmd "github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/user"
	"github.com/wonderfly/compute-image-packages/internal/logger"
	"github.com/wonderfly/compute-image-packages/internal/telemetry"
	"github.com/wonderfly/compute-image-packages/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// telemetryShutdown flushes the trace exporter after the command ran.
var telemetryShutdown func(context.Context) error

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "oslogin",
	Short: "OS Login directory lookup tool",
	Long: `oslogin resolves POSIX accounts, SSH keys, and login authorization
from the OS Login identity directory.

Use this tool to inspect what the account-lookup mechanism would see:
point lookups by name or uid, full enumeration, key listings, and
authorization checks.

Use "oslogin [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Sync flags to cmdutil.Flags for subcommands
		cmdutil.Flags.ConfigPath, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.Verbose, _ = cmd.Flags().GetBool("verbose")

		// init, completion, and the config subcommands must work
		// before any (valid) config exists
		if cmd.Name() == "init" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		cfg, err := cmdutil.GetConfig()
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if cmdutil.Flags.Verbose {
			level = "DEBUG"
		}
		if err := logger.Init(logger.Config{
			Level:  level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		}); err != nil {
			return err
		}

		telemetryShutdown, err = telemetry.Init(cmd.Context(), telemetryConfig(cfg))
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			return telemetryShutdown(cmd.Context())
		}
		return nil
	},
}

// telemetryConfig maps the file configuration onto the telemetry setup.
func telemetryConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "oslogin",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: /etc/oslogin or XDG config dir)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(usercmd.Cmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
