package moderation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/app/image"
	"github.com/ContentGuard/ModGate/pkg/app/notification"
	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/ContentGuard/ModGate/pkg/infra/fingerprint"
	"github.com/ContentGuard/ModGate/pkg/infra/metrics"
	"github.com/ContentGuard/ModGate/pkg/infra/providers"
)

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=moderation_service_mock.go --case=underscore --with-expecter

// Service runs the moderation pipeline: fingerprint, dedup, classify,
// persist, notify. The caller-facing Outcome is finalized before any
// notification work happens.
type Service interface {
	ModerateText(ctx context.Context, submitter, text string) (*Outcome, error)
	ModerateImage(ctx context.Context, submitter string, content *image.Content) (*Outcome, error)
}

type service struct {
	logger         *logrus.Logger
	repo           domain.Repository
	upstream       providers.Client
	upstreamConfig *providers.Config
	cache          VerdictCache
	enqueuer       notification.Enqueuer
	policy         Policy
}

func NewService(
	logger *logrus.Logger,
	repo domain.Repository,
	upstream providers.Client,
	upstreamConfig *providers.Config,
	cache VerdictCache,
	enqueuer notification.Enqueuer,
	policy Policy,
) Service {
	return &service{
		logger:         logger,
		repo:           repo,
		upstream:       upstream,
		upstreamConfig: upstreamConfig,
		cache:          cache,
		enqueuer:       enqueuer,
		policy:         policy.WithDefaults(),
	}
}

func (s *service) ModerateText(ctx context.Context, submitter, text string) (*Outcome, error) {
	if text == "" {
		metrics.SubmissionsTotal.WithLabelValues(string(domain.ContentKindText), "rejected").Inc()
		return nil, fmt.Errorf("%w: text must not be empty", domain.ErrInvalidInput)
	}
	// The bound is in characters, not bytes; multi-byte text counts by rune.
	if utf8.RuneCountInString(text) > s.policy.MaxTextLength {
		metrics.SubmissionsTotal.WithLabelValues(string(domain.ContentKindText), "rejected").Inc()
		return nil, fmt.Errorf("%w: text exceeds %d characters", domain.ErrInvalidInput, s.policy.MaxTextLength)
	}

	fp := fingerprint.Text(text)
	if outcome := s.lookupExisting(ctx, domain.ContentKindText, fp); outcome != nil {
		return outcome, nil
	}

	classify := func(ctx context.Context) (*providers.CompletionResponse, error) {
		return s.upstream.ClassifyText(ctx, s.upstreamConfig, text)
	}
	return s.run(ctx, submitter, domain.ContentKindText, fp, s.preview(text), classify)
}

func (s *service) ModerateImage(ctx context.Context, submitter string, content *image.Content) (*Outcome, error) {
	if content == nil || len(content.Bytes) == 0 {
		metrics.SubmissionsTotal.WithLabelValues(string(domain.ContentKindImage), "rejected").Inc()
		return nil, fmt.Errorf("%w: image content must not be empty", domain.ErrInvalidInput)
	}

	if outcome := s.lookupExisting(ctx, domain.ContentKindImage, content.Fingerprint); outcome != nil {
		return outcome, nil
	}

	classify := func(ctx context.Context) (*providers.CompletionResponse, error) {
		return s.upstream.ClassifyImage(ctx, s.upstreamConfig, content.Bytes, content.MimeType, content.Preview)
	}
	return s.run(ctx, submitter, domain.ContentKindImage, content.Fingerprint, content.Preview, classify)
}

// lookupExisting checks the cache, then the store, for a reusable verdict.
// Cache-hit outcomes never dispatch notifications: identical content was
// already alerted on when first seen.
func (s *service) lookupExisting(ctx context.Context, kind domain.ContentKind, fp string) *Outcome {
	if s.cache != nil {
		entry, err := s.cache.GetVerdict(ctx, kind, fp)
		if err != nil {
			s.logger.WithError(err).Debug("verdict cache lookup failed")
		} else if entry != nil {
			metrics.SubmissionsTotal.WithLabelValues(string(kind), "cache_hit").Inc()
			return &Outcome{
				RequestID: entry.RequestID,
				Verdict:   entry.Verdict,
				Flagged:   entry.Verdict.Flagged(),
				CacheHit:  true,
			}
		}
	}

	existing, err := s.repo.FindByFingerprint(ctx, kind, fp)
	if err != nil {
		s.logger.WithError(err).Warn("fingerprint lookup failed, treating as new content")
		return nil
	}
	if existing == nil {
		return nil
	}

	verdict, err := s.repo.LatestVerdict(ctx, existing.ID)
	if err != nil || verdict == nil {
		// A prior request without a verdict (failed or still in flight)
		// does not satisfy the dedup; classify fresh.
		return nil
	}

	s.populateCache(ctx, kind, fp, existing.ID, verdict)
	metrics.SubmissionsTotal.WithLabelValues(string(kind), "cache_hit").Inc()
	return &Outcome{
		RequestID: existing.ID,
		Verdict:   *verdict,
		Flagged:   verdict.Flagged(),
		CacheHit:  true,
	}
}

func (s *service) run(
	ctx context.Context,
	submitter string,
	kind domain.ContentKind,
	fp string,
	preview string,
	classify func(ctx context.Context) (*providers.CompletionResponse, error),
) (*Outcome, error) {
	req, err := s.repo.Create(ctx, submitter, kind, fp)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(kind), "failed").Inc()
		return nil, fmt.Errorf("failed to create moderation request: %w", err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"request_id": req.ID,
		"kind":       kind,
	})

	upstreamCtx, cancel := context.WithTimeout(ctx, s.policy.UpstreamTimeout)
	defer cancel()

	started := time.Now()
	completion, err := classify(upstreamCtx)
	metrics.UpstreamLatency.WithLabelValues(string(kind)).Observe(float64(time.Since(started).Milliseconds()))
	if err != nil {
		log.WithError(err).Error("classification upstream call failed")
		s.markFailed(req.ID)
		metrics.SubmissionsTotal.WithLabelValues(string(kind), "failed").Inc()
		return nil, mapUpstreamError(err)
	}

	parsed := ParseVerdict(completion.Response)
	verdict := &domain.Verdict{
		RequestID:       req.ID,
		Classification:  parsed.Classification,
		Confidence:      parsed.Confidence,
		Reasoning:       parsed.Reasoning,
		RawResponse:     parsed.Raw,
		UpstreamFlagged: parsed.UpstreamFlagged,
	}
	if err := s.repo.SaveVerdict(ctx, verdict); err != nil {
		log.WithError(err).Error("failed to persist verdict")
		s.markFailed(req.ID)
		metrics.SubmissionsTotal.WithLabelValues(string(kind), "failed").Inc()
		return nil, fmt.Errorf("failed to persist verdict: %w", err)
	}

	// The verdict is durable; a status update failure must not fail the
	// submission.
	if err := s.repo.SetStatus(ctx, req.ID, domain.StatusCompleted); err != nil {
		log.WithError(err).Warn("failed to mark request completed")
	}

	metrics.SubmissionsTotal.WithLabelValues(string(kind), "completed").Inc()
	metrics.ClassificationsTotal.WithLabelValues(string(parsed.Classification)).Inc()

	if verdict.Flagged() && s.enqueuer != nil {
		enqueued := s.enqueuer.Enqueue(notification.Job{
			RequestID:        req.ID,
			Submitter:        submitter,
			Classification:   verdict.Classification,
			ContentKind:      kind,
			ContentPreview:   preview,
			Confidence:       verdict.Confidence,
			Reasoning:        verdict.Reasoning,
			RequestCreatedAt: req.CreatedAt,
		})
		if !enqueued {
			log.Warn("notification dispatch queue rejected job")
		}
	}

	s.populateCache(ctx, kind, fp, req.ID, verdict)

	return &Outcome{
		RequestID: req.ID,
		Verdict:   *verdict,
		Flagged:   verdict.Flagged(),
		CacheHit:  false,
	}, nil
}

func (s *service) populateCache(ctx context.Context, kind domain.ContentKind, fp string, requestID uuid.UUID, verdict *domain.Verdict) {
	if s.cache == nil {
		return
	}
	entry := &CachedVerdict{
		RequestID: requestID,
		Verdict:   *verdict,
	}
	if err := s.cache.SaveVerdict(ctx, kind, fp, entry); err != nil {
		s.logger.WithError(err).Debug("verdict cache write failed")
	}
}

// markFailed uses a background context: the original request context may
// already be canceled, and the failed status must still land.
func (s *service) markFailed(requestID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.SetStatus(ctx, requestID, domain.StatusFailed); err != nil {
		s.logger.WithError(err).WithField("request_id", requestID).Error("failed to mark request failed")
	}
}

// preview truncates on a rune boundary so channel payloads stay valid UTF-8.
func (s *service) preview(text string) string {
	runes := []rune(text)
	if len(runes) <= s.policy.PreviewLength {
		return text
	}
	return string(runes[:s.policy.PreviewLength]) + "..."
}

// mapUpstreamError separates reachability failures from upstream-reported
// errors so handlers can choose the right status code.
func mapUpstreamError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	case errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamError, err)
	}
}
