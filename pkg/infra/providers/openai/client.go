package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/sync/singleflight"
)

const defaultModel = "gpt-4o-mini"

type client struct {
	clientPool *sync.Map
	sf         singleflight.Group
}

func NewOpenaiClient() providers.Client {
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
	return c.complete(ctx, config, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
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
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	return c.complete(ctx, config, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(providers.ImageModerationPrompt(hint)),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		}),
	})
}

func (c *client) complete(
	ctx context.Context,
	config *providers.Config,
	messages []openai.ChatCompletionMessageParamUnion,
) (*providers.CompletionResponse, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	openaiClient := c.getOrCreateClient(config.Credentials.ApiKey)

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: messages,
	}
	if config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(config.MaxTokens))
	}
	if config.Temperature > 0 {
		params.Temperature = openai.Float(config.Temperature)
	}

	resp, err := openaiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completions returned")
	}

	return &providers.CompletionResponse{
		ID:       resp.ID,
		Model:    resp.Model,
		Response: resp.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (c *client) getOrCreateClient(apiKey string) *openai.Client {
	if v, ok := c.clientPool.Load(apiKey); ok {
		if cli, ok := v.(*openai.Client); ok {
			return cli
		}
	}
	v, err, _ := c.sf.Do(apiKey, func() (any, error) {
		if v2, ok := c.clientPool.Load(apiKey); ok {
			return v2, nil
		}
		cli := openai.NewClient(option.WithAPIKey(apiKey))
		c.clientPool.Store(apiKey, &cli)
		return &cli, nil
	})
	if err == nil {
		if cli, ok := v.(*openai.Client); ok {
			return cli
		}
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &cli
}
