package analytics

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=analytics_service_mock.go --case=underscore --with-expecter

// Service exposes read-side rollups over the moderation store.
type Service interface {
	SubmitterSummary(ctx context.Context, submitter string) (*domain.SubmitterSummary, error)
	OverallStats(ctx context.Context) (*domain.OverallStats, error)
}

type service struct {
	logger *logrus.Logger
	repo   domain.AnalyticsRepository
}

func NewService(logger *logrus.Logger, repo domain.AnalyticsRepository) Service {
	return &service{
		logger: logger,
		repo:   repo,
	}
}

func (s *service) SubmitterSummary(ctx context.Context, submitter string) (*domain.SubmitterSummary, error) {
	if submitter == "" {
		return nil, fmt.Errorf("%w: submitter must not be empty", domain.ErrInvalidInput)
	}
	summary, err := s.repo.SubmitterSummary(ctx, submitter)
	if err != nil {
		s.logger.WithError(err).WithField("submitter", submitter).Error("failed to build submitter summary")
		return nil, fmt.Errorf("failed to build submitter summary: %w", err)
	}
	return summary, nil
}

func (s *service) OverallStats(ctx context.Context) (*domain.OverallStats, error) {
	stats, err := s.repo.OverallStats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to build overall stats")
		return nil, fmt.Errorf("failed to build overall stats: %w", err)
	}
	return stats, nil
}
