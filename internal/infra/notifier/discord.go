package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio-content/internal/observability/usage"
)

const maxDiscordDescriptionLength = 4096

// Embed colours by health.
const (
	colorGreen  = 0x2ECC71
	colorYellow = 0xF1C40F
	colorOrange = 0xE67E22
	colorRed    = 0xE74C3C
)

// DiscordNotifier posts alerts to a Discord webhook.
type DiscordNotifier struct {
	hook *webhook
}

// NewDiscordNotifier creates a notifier limited to two messages per second.
func NewDiscordNotifier(webhookURL string, timeout time.Duration, logger *slog.Logger) *DiscordNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordNotifier{hook: &webhook{
		service:    "discord",
		url:        webhookURL,
		client:     &http.Client{Timeout: timeout},
		limiter:    NewRateLimiter(2.0, 1),
		retryDelay: 5 * time.Second,
		logger:     logger,
	}}
}

// DiscordWebhookPayload is the webhook request body.
type DiscordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one rich embed.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

// DiscordEmbedField is a name/value pair of an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordEmbedFooter is the footer of an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// Name implements Notifier.
func (d *DiscordNotifier) Name() string { return "discord" }

// Notify implements Notifier.
func (d *DiscordNotifier) Notify(ctx context.Context, a Alert) error {
	return d.hook.send(ctx, buildDiscordPayload(a))
}

func buildDiscordPayload(a Alert) DiscordWebhookPayload {
	description := "No recommendations."
	if len(a.Recommendations) > 0 {
		description = "- " + strings.Join(a.Recommendations, "\n- ")
	}
	embed := DiscordEmbed{
		Title:       fmt.Sprintf("Content layer health is %s", a.Health),
		Description: truncate(description, maxDiscordDescriptionLength),
		Color:       healthColor(a.Health),
		Fields: []DiscordEmbedField{
			{Name: "Requests", Value: fmt.Sprintf("%d", a.TotalRequests), Inline: true},
			{Name: "Static fallback", Value: fmt.Sprintf("%.1f%%", a.StaticFallbackRate), Inline: true},
			{Name: "Failures", Value: fmt.Sprintf("%.1f%%", a.FailureRate), Inline: true},
		},
		Footer: &DiscordEmbedFooter{Text: "snapshot " + a.SnapshotID},
	}
	if !a.At.IsZero() {
		embed.Timestamp = a.At.UTC().Format(time.RFC3339)
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

func healthColor(h usage.Health) int {
	switch h {
	case usage.HealthExcellent:
		return colorGreen
	case usage.HealthGood:
		return colorYellow
	case usage.HealthFair:
		return colorOrange
	default:
		return colorRed
	}
}
