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

const brevoSendURL = "https://api.brevo.com/v3/smtp/email"

// EmailConfig configures the Brevo transactional email channel.
type EmailConfig struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	Recipient   string
}

type emailChannel struct {
	client httpx.Client
	cfg    EmailConfig
}

func NewEmailChannel(client httpx.Client, cfg EmailConfig) Channel {
	return &emailChannel{
		client: client,
		cfg:    cfg,
	}
}

func (e *emailChannel) Name() domain.NotificationChannel {
	return domain.NotificationChannelEmail
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent"`
}

func (e *emailChannel) Send(ctx context.Context, msg *Message) error {
	subject := fmt.Sprintf("Content Moderation Alert - %s", strings.ToUpper(string(msg.Classification)))

	payload := brevoEmail{
		Sender:      brevoContact{Name: e.cfg.SenderName, Email: e.cfg.SenderEmail},
		To:          []brevoContact{{Email: e.cfg.Recipient}},
		Subject:     subject,
		HTMLContent: e.htmlBody(msg),
		TextContent: e.textBody(msg),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoSendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("email api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

func (e *emailChannel) htmlBody(msg *Message) string {
	var b strings.Builder
	b.WriteString("<h2>Content flagged by moderation</h2>")
	b.WriteString("<table>")
	writeRow := func(label, value string) {
		b.WriteString("<tr><td><strong>")
		b.WriteString(label)
		b.WriteString("</strong></td><td>")
		b.WriteString(value)
		b.WriteString("</td></tr>")
	}
	writeRow("Request ID", msg.RequestID.String())
	writeRow("Submitter", msg.Submitter)
	writeRow("Classification", string(msg.Classification))
	writeRow("Content Type", string(msg.ContentKind))
	writeRow("Confidence", fmt.Sprintf("%.2f%%", msg.Confidence*100))
	writeRow("Preview", msg.ContentPreview)
	writeRow("Reasoning", msg.Reasoning)
	b.WriteString("</table>")
	return b.String()
}

func (e *emailChannel) textBody(msg *Message) string {
	return fmt.Sprintf(
		"Content flagged by moderation\n\nRequest ID: %s\nSubmitter: %s\nClassification: %s\nContent Type: %s\nConfidence: %.2f%%\nPreview: %s\nReasoning: %s\n",
		msg.RequestID,
		msg.Submitter,
		msg.Classification,
		msg.ContentKind,
		msg.Confidence*100,
		msg.ContentPreview,
		msg.Reasoning,
	)
}
