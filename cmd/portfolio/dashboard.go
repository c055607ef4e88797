package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"portfolio-content/internal/observability/usage"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Warm every content shape and print the telemetry dashboard",
		Long: `Fetch every content shape once, as the worker's warm-up job does, and
print the resulting usage dashboard. Use it to check whether the content
service is reachable and how often content falls back to bundled data.`,
		Args: cobra.NoArgs,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	a.Gateway.Warm(cmd.Context())
	d := a.Tracker.Dashboard()
	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	return printDashboard(cmd.OutOrStdout(), d)
}

func printDashboard(w io.Writer, d usage.Dashboard) error {
	m := d.Metrics
	if _, err := fmt.Fprintf(w, "health: %s\nrequests: %d (%d ok, %d failed)\n",
		d.Health, m.TotalRequests, m.SuccessfulRequests, m.FailedRequests); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "static fallback rate: %.1f%%\ncache hit rate: %.1f%%\naverage response: %.0fms\n",
		m.StaticFallbackRate, m.CacheHitRate, m.AverageResponseTimeMs); err != nil {
		return err
	}
	for _, r := range d.Recommendations {
		if _, err := fmt.Fprintf(w, "- %s\n", r); err != nil {
			return err
		}
	}
	return nil
}
