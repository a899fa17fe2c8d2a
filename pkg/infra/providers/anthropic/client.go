package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 1024

// defaultModel must be a constant the pinned SDK version defines.
var defaultModel = anthropic.ModelClaude3_5HaikuLatest

type client struct {
	clientPool *sync.Map
}

func NewAnthropicClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) ClassifyText(
	ctx context.Context,
	config *providers.Config,
	text string,
) (*providers.CompletionResponse, error) {
	prompt := providers.TextModerationPrompt(text)
	return c.complete(ctx, config, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
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
	encoded := base64.StdEncoding.EncodeToString(data)
	return c.complete(ctx, config, []anthropic.MessageParam{
		anthropic.NewUserMessage(
			anthropic.NewTextBlock(providers.ImageModerationPrompt(hint)),
			anthropic.NewImageBlockBase64(mimeType, encoded),
		),
	})
}

func (c *client) complete(
	ctx context.Context,
	config *providers.Config,
	messages []anthropic.MessageParam,
) (*providers.CompletionResponse, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	anthropicClient := c.getOrCreateClient(config.Credentials.ApiKey)

	model := defaultModel
	if config.Model != "" {
		model = anthropic.Model(config.Model)
	}

	maxTokens := int64(defaultMaxTokens)
	if config.MaxTokens > 0 {
		maxTokens = int64(config.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if config.Temperature > 0 {
		params.Temperature = anthropic.Float(config.Temperature)
	}

	message, err := anthropicClient.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("no completions returned")
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText = content.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content returned")
	}

	return &providers.CompletionResponse{
		ID:       message.ID,
		Model:    string(model),
		Response: responseText,
		Usage: providers.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}

func (c *client) getOrCreateClient(apiKey string) *anthropic.Client {
	if v, ok := c.clientPool.Load(apiKey); ok {
		if cli, ok := v.(*anthropic.Client); ok {
			return cli
		}
	}
	cli := anthropic.NewClient(option.WithAPIKey(apiKey))
	c.clientPool.Store(apiKey, &cli)
	return &cli
}
