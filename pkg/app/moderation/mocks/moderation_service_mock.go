package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ContentGuard/ModGate/pkg/app/image"
	"github.com/ContentGuard/ModGate/pkg/app/moderation"
)

type Service struct {
	mock.Mock
}

func (m *Service) ModerateText(ctx context.Context, submitter, text string) (*moderation.Outcome, error) {
	args := m.Called(ctx, submitter, text)
	outcome, _ := args.Get(0).(*moderation.Outcome)
	return outcome, args.Error(1)
}

func (m *Service) ModerateImage(ctx context.Context, submitter string, content *image.Content) (*moderation.Outcome, error) {
	args := m.Called(ctx, submitter, content)
	outcome, _ := args.Get(0).(*moderation.Outcome)
	return outcome, args.Error(1)
}
