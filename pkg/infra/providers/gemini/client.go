package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	"google.golang.org/genai"
)

const defaultModel = "gemini-1.5-flash"

type client struct {
	genaiClient *genai.Client
}

// NewGeminiClient builds a Gemini-backed classification client. The same
// model handles text and multimodal prompts.
func NewGeminiClient(ctx context.Context, apiKey string) (providers.Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &client{genaiClient: genaiClient}, nil
}

func (c *client) ClassifyText(
	ctx context.Context,
	config *providers.Config,
	text string,
) (*providers.CompletionResponse, error) {
	prompt := providers.TextModerationPrompt(text)
	contents := genai.Text(prompt)
	return c.generate(ctx, config, contents)
}

func (c *client) ClassifyImage(
	ctx context.Context,
	config *providers.Config,
	data []byte,
	mimeType string,
	hint string,
) (*providers.CompletionResponse, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: providers.ImageModerationPrompt(hint)},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}
	return c.generate(ctx, config, contents)
}

func (c *client) generate(
	ctx context.Context,
	config *providers.Config,
	contents []*genai.Content,
) (*providers.CompletionResponse, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	result, err := c.genaiClient.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := result.Text()
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	if responseText == "" {
		return nil, fmt.Errorf("no completions returned")
	}

	resp := &providers.CompletionResponse{
		ID:       fmt.Sprintf("gemini-%d", time.Now().UnixNano()),
		Model:    model,
		Response: responseText,
	}
	if result.UsageMetadata != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}
