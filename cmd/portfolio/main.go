// Package main is the operator CLI of the portfolio content layer.
// It validates content, prints the portfolio catalogue and shows the
// telemetry dashboard without starting the API server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"portfolio-content/internal/app"
	"portfolio-content/internal/observability/logging"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Operate the portfolio content layer",
		Long: `Inspect the content layer from the command line.

The content service is used when CONTENT_SPACE_ID and CONTENT_ACCESS_TOKEN are
set; otherwise every command works on the bundled static datasets.

Example:
  portfolio validate --source static
  portfolio catalogue --category "Bridal Makeup" --output json
  portfolio dashboard`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("output", "o", outputText, "Output format (text, json)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newValidateCmd(), newCatalogueCmd(), newDashboardCmd(), newTokenCmd())
	return rootCmd
}

// openApp wires the content layer for one command. Logs go to stderr so
// command output stays machine readable.
func openApp(cmd *cobra.Command) (*app.App, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logger := logging.New(logging.Options{Level: level, Format: "text", Output: cmd.ErrOrStderr()})
	return app.New(cmd.Context(), app.Options{Logger: logger})
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("failed to get output flag: %w", err)
	}
	switch format {
	case outputText, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
