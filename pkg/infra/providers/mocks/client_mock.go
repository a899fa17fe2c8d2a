package mocks

import (
	"context"

	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) ClassifyText(
	ctx context.Context,
	config *providers.Config,
	text string,
) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, text)
	resp, _ := args.Get(0).(*providers.CompletionResponse)
	return resp, args.Error(1)
}

func (m *Client) ClassifyImage(
	ctx context.Context,
	config *providers.Config,
	data []byte,
	mimeType string,
	hint string,
) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, data, mimeType, hint)
	resp, _ := args.Get(0).(*providers.CompletionResponse)
	return resp, args.Error(1)
}
