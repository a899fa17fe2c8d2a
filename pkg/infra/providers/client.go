package providers

import (
	"context"
)

type Config struct {
	Credentials Credentials            `json:"credentials"`
	Model       string                 `json:"model"`
	MaxTokens   int                    `json:"max_tokens,omitempty"`
	Temperature float64                `json:"temperature,omitempty"`
	Options     map[string]interface{} `json:"options,omitempty"`
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

// Client is a classification upstream. Implementations perform a single
// request per call: no retries, no response shaping beyond extracting the
// completion text. Timeouts are the caller's responsibility via ctx.
type Client interface {
	ClassifyText(ctx context.Context, config *Config, text string) (*CompletionResponse, error)
	ClassifyImage(ctx context.Context, config *Config, data []byte, mimeType, hint string) (*CompletionResponse, error)
}
