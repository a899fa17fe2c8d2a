package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ContentGuard/ModGate/pkg/app/image"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) FromURL(ctx context.Context, rawURL string) (*image.Content, error) {
	args := m.Called(ctx, rawURL)
	content, _ := args.Get(0).(*image.Content)
	return content, args.Error(1)
}

func (m *MockImageService) FromBase64(ctx context.Context, encoded string) (*image.Content, error) {
	args := m.Called(ctx, encoded)
	content, _ := args.Get(0).(*image.Content)
	return content, args.Error(1)
}
