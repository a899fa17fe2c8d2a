package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

type Service struct {
	mock.Mock
}

func (m *Service) SubmitterSummary(ctx context.Context, submitter string) (*domain.SubmitterSummary, error) {
	args := m.Called(ctx, submitter)
	summary, _ := args.Get(0).(*domain.SubmitterSummary)
	return summary, args.Error(1)
}

func (m *Service) OverallStats(ctx context.Context) (*domain.OverallStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*domain.OverallStats)
	return stats, args.Error(1)
}
