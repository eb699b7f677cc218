// Package cmdutil provides shared utilities for oslogin commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/wonderfly/compute-image-packages/internal/cli/output"
	"github.com/wonderfly/compute-image-packages/pkg/buffer"
	"github.com/wonderfly/compute-image-packages/pkg/config"
	"github.com/wonderfly/compute-image-packages/pkg/directory"
	"github.com/wonderfly/compute-image-packages/pkg/resolver"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Verbose    bool
}

// loaded caches the configuration for the lifetime of one invocation.
var loaded *config.Config

// GetConfig loads and caches the configuration.
func GetConfig() (*config.Config, error) {
	if loaded != nil {
		return loaded, nil
	}
	cfg, err := config.MustLoad(Flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	loaded = cfg
	return cfg, nil
}

// SetConfig overrides the cached configuration (used by root setup and
// tests).
func SetConfig(cfg *config.Config) {
	loaded = cfg
}

// exitCode is the process exit code a command asks for when its run
// succeeded but its verdict maps to a non-zero exit, the way authorize
// exits 1 on a denied policy. Commands record it here instead of
// calling os.Exit so the persistent teardown (the telemetry flush)
// still runs; main exits with it afterwards.
var exitCode int

// SetExitCode records the exit code main uses after a clean run.
func SetExitCode(code int) {
	exitCode = code
}

// ExitCode returns the recorded exit code, zero by default.
func ExitCode() int {
	return exitCode
}

// GetResolver builds a resolver over the configured directory endpoint.
func GetResolver() (*resolver.Resolver, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	client := directory.New(cfg.Directory.Endpoint,
		directory.WithTimeout(cfg.Directory.Timeout),
		directory.WithPageSize(cfg.Directory.PageSize),
	)
	return resolver.New(client, resolver.WithPageSize(cfg.Directory.PageSize)), nil
}

// NewBuffer allocates a lookup buffer region of the configured size.
func NewBuffer() (*buffer.Writer, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return buffer.NewWriter(make([]byte, cfg.NSS.BufferSize)), nil
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled returns whether color output is disabled.
func IsColorDisabled() bool {
	return Flags.NoColor
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return Flags.Verbose
}

// PrintOutput prints data in the specified format (JSON, YAML, or table).
// For table format, it displays emptyMsg if data is empty, otherwise uses the tableRenderer.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintResource prints a resource in the specified format.
// For table format, it uses the provided tableRenderer. For JSON/YAML, it outputs the resource.
func PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintWarning prints a warning line in table format only.
func PrintWarning(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	printer := output.NewPrinter(os.Stderr, !IsColorDisabled())
	printer.Warning(msg)
}

// EmptyOr returns value, or fallback when value is empty.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
