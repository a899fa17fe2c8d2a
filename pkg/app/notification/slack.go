package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/ContentGuard/ModGate/pkg/infra/httpx"
)

// Attachment colors per classification, red for the worst.
var slackColors = map[domain.Classification]string{
	domain.ClassificationToxic:         "#ff0000",
	domain.ClassificationHarassment:    "#ff6600",
	domain.ClassificationInappropriate: "#ffcc00",
	domain.ClassificationSpam:          "#999999",
}

const slackDefaultColor = "#36a64f"

type slackChannel struct {
	client     httpx.Client
	webhookURL string
}

// NewSlackChannel builds a Channel that posts an attachment to an incoming
// webhook.
func NewSlackChannel(client httpx.Client, webhookURL string) Channel {
	return &slackChannel{
		client:     client,
		webhookURL: webhookURL,
	}
}

func (s *slackChannel) Name() domain.NotificationChannel {
	return domain.NotificationChannelSlack
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Fields []slackField `json:"fields"`
}

type slackPayload struct {
	Attachments []slackAttachment `json:"attachments"`
}

func (s *slackChannel) Send(ctx context.Context, msg *Message) error {
	color, ok := slackColors[msg.Classification]
	if !ok {
		color = slackDefaultColor
	}

	payload := slackPayload{
		Attachments: []slackAttachment{
			{
				Color: color,
				Title: "Content Moderation Alert - " + strings.ToUpper(string(msg.Classification)),
				Fields: []slackField{
					{Title: "Request ID", Value: msg.RequestID.String(), Short: true},
					{Title: "Submitter", Value: msg.Submitter, Short: true},
					{Title: "Content Type", Value: string(msg.ContentKind), Short: true},
					{Title: "Confidence", Value: fmt.Sprintf("%.2f%%", msg.Confidence*100), Short: true},
					{Title: "Content Preview", Value: msg.ContentPreview, Short: false},
					{Title: "Reasoning", Value: msg.Reasoning, Short: false},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
