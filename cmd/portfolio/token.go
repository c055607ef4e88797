package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portfolio-content/internal/handler/http/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the telemetry endpoints",
		Long: `Sign a bearer token accepted by /api/telemetry/*.

The signing key is read from TELEMETRY_JWT_SECRET (at least 32 bytes).

Example:
  portfolio token --subject ops@example.com --ttl 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := auth.LoadConfigFromEnv()
			if cmd.Flags().Changed("ttl") {
				cfg.TTL = ttl
			}
			token, err := auth.IssueToken(cfg, subject, time.Now())
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"token":      token,
					"subject":    subject,
					"expires_at": time.Now().Add(cfg.TTL).UTC().Format(time.RFC3339),
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Operator identity stored in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime (overrides TELEMETRY_JWT_TTL)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
