package mocks

import (
	"context"

	"github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/stretchr/testify/mock"
)

type AnalyticsRepository struct {
	mock.Mock
}

func (m *AnalyticsRepository) SubmitterSummary(
	ctx context.Context,
	submitter string,
) (*moderation.SubmitterSummary, error) {
	args := m.Called(ctx, submitter)
	summary, _ := args.Get(0).(*moderation.SubmitterSummary)
	return summary, args.Error(1)
}

func (m *AnalyticsRepository) OverallStats(ctx context.Context) (*moderation.OverallStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*moderation.OverallStats)
	return stats, args.Error(1)
}
