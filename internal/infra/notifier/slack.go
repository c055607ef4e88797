package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxSlackSectionLength = 3000

// SlackNotifier posts alerts to a Slack Incoming Webhook.
type SlackNotifier struct {
	hook *webhook
}

// NewSlackNotifier creates a notifier limited to one message per second.
func NewSlackNotifier(webhookURL string, timeout time.Duration, logger *slog.Logger) *SlackNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackNotifier{hook: &webhook{
		service:    "slack",
		url:        webhookURL,
		client:     &http.Client{Timeout: timeout},
		limiter:    NewRateLimiter(1.0, 1),
		retryDelay: 5 * time.Second,
		logger:     logger,
	}}
}

// SlackWebhookPayload is a Block Kit message.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is one Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a Block Kit text object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name implements Notifier.
func (s *SlackNotifier) Name() string { return "slack" }

// Notify implements Notifier.
func (s *SlackNotifier) Notify(ctx context.Context, a Alert) error {
	return s.hook.send(ctx, buildSlackPayload(a))
}

func buildSlackPayload(a Alert) SlackWebhookPayload {
	headline := fmt.Sprintf("Content layer health is %s", a.Health)

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", headline)
	fmt.Fprintf(&b, "Static fallback %.1f%% · failures %.1f%% · cache hits %.1f%% over %d requests",
		a.StaticFallbackRate, a.FailureRate, a.CacheHitRate, a.TotalRequests)
	for _, r := range a.Recommendations {
		fmt.Fprintf(&b, "\n• %s", r)
	}

	return SlackWebhookPayload{
		Text: headline,
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(b.String(), maxSlackSectionLength)},
			},
			{
				Type: "context",
				Elements: []SlackTextObject{{
					Type: "mrkdwn",
					Text: fmt.Sprintf("snapshot %s · %s", a.SnapshotID, a.At.UTC().Format(time.RFC3339)),
				}},
			},
		},
	}
}
