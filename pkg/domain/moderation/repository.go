package moderation

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=repository_mock.go --case=underscore --with-expecter

// Repository is the moderation store. Each operation is atomic on its own;
// callers compose them sequentially with no cross-call transaction (the
// dedup check-then-create race is accepted, see the orchestrator).
// Lookups return (nil, nil) when no row exists.
type Repository interface {
	// FindByFingerprint returns the most recently created request for the
	// (kind, fingerprint) pair, or nil when none exists.
	FindByFingerprint(ctx context.Context, kind ContentKind, fingerprint string) (*Request, error)

	// LatestVerdict returns the newest verdict for the request, or nil.
	LatestVerdict(ctx context.Context, requestID uuid.UUID) (*Verdict, error)

	// Create persists a new request in status processing.
	Create(ctx context.Context, submitter string, kind ContentKind, fingerprint string) (*Request, error)

	SaveVerdict(ctx context.Context, verdict *Verdict) error
	SetStatus(ctx context.Context, requestID uuid.UUID, status Status) error
	RecordNotification(ctx context.Context, attempt *NotificationAttempt) error

	// Get loads a request with its verdicts and notification attempts.
	// Returns ErrNotFound when absent.
	Get(ctx context.Context, requestID uuid.UUID) (*Request, error)
}

//go:generate mockery --name=AnalyticsRepository --dir=. --output=./mocks --filename=analytics_repository_mock.go --case=underscore --with-expecter

// AnalyticsRepository is the read-side aggregation over persisted requests
// and verdicts. No new design: pure rollups.
type AnalyticsRepository interface {
	SubmitterSummary(ctx context.Context, submitter string) (*SubmitterSummary, error)
	OverallStats(ctx context.Context) (*OverallStats, error)
}
