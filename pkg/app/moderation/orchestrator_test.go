package moderation_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ContentGuard/ModGate/pkg/app/image"
	appmoderation "github.com/ContentGuard/ModGate/pkg/app/moderation"
	"github.com/ContentGuard/ModGate/pkg/app/notification"
	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	domainmocks "github.com/ContentGuard/ModGate/pkg/domain/moderation/mocks"
	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	providermocks "github.com/ContentGuard/ModGate/pkg/infra/providers/mocks"
)

type captureEnqueuer struct {
	mu     sync.Mutex
	jobs   []notification.Job
	accept bool
}

func newCaptureEnqueuer() *captureEnqueuer {
	return &captureEnqueuer{accept: true}
}

func (e *captureEnqueuer) Enqueue(job notification.Job) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.accept {
		return false
	}
	e.jobs = append(e.jobs, job)
	return true
}

func (e *captureEnqueuer) captured() []notification.Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]notification.Job(nil), e.jobs...)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*appmoderation.CachedVerdict
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*appmoderation.CachedVerdict)}
}

func (c *memoryCache) GetVerdict(_ context.Context, kind domain.ContentKind, fp string) (*appmoderation.CachedVerdict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[string(kind)+":"+fp], nil
}

func (c *memoryCache) SaveVerdict(_ context.Context, kind domain.ContentKind, fp string, entry *appmoderation.CachedVerdict) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[string(kind)+":"+fp] = entry
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newService(
	repo *domainmocks.Repository,
	upstream *providermocks.Client,
	cache appmoderation.VerdictCache,
	enqueuer notification.Enqueuer,
) appmoderation.Service {
	return appmoderation.NewService(
		testLogger(),
		repo,
		upstream,
		&providers.Config{Model: "test-model"},
		cache,
		enqueuer,
		appmoderation.Policy{},
	)
}

func pendingRequest(kind domain.ContentKind) *domain.Request {
	return &domain.Request{
		ID:          uuid.New(),
		Submitter:   "user@example.com",
		ContentKind: kind,
		Status:      domain.StatusProcessing,
		CreatedAt:   time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func completion(raw string) *providers.CompletionResponse {
	return &providers.CompletionResponse{ID: "cmpl-1", Model: "test-model", Response: raw}
}

func TestModerateText(t *testing.T) {
	t.Run("classifies new content end to end", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		enqueuer := newCaptureEnqueuer()
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, "user@example.com", domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, "you are an idiot").
			Return(completion(`{"classification": "toxic", "confidence": 0.9, "reasoning": "insult", "flagged": true}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.MatchedBy(func(v *domain.Verdict) bool {
			return v.RequestID == req.ID && v.Classification == domain.ClassificationToxic && v.Confidence == 0.9
		})).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), enqueuer)
		outcome, err := svc.ModerateText(context.Background(), "user@example.com", "you are an idiot")

		assert.NoError(t, err)
		assert.Equal(t, req.ID, outcome.RequestID)
		assert.True(t, outcome.Flagged)
		assert.False(t, outcome.CacheHit)
		assert.Equal(t, domain.ClassificationToxic, outcome.Verdict.Classification)

		jobs := enqueuer.captured()
		assert.Len(t, jobs, 1)
		assert.Equal(t, req.ID, jobs[0].RequestID)
		assert.Equal(t, req.CreatedAt, jobs[0].RequestCreatedAt)
		assert.Equal(t, "you are an idiot", jobs[0].ContentPreview)
		repo.AssertExpectations(t)
		upstream.AssertExpectations(t)
	})

	t.Run("safe verdict does not dispatch", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		enqueuer := newCaptureEnqueuer()
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "safe", "confidence": 0.99}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), enqueuer)
		outcome, err := svc.ModerateText(context.Background(), "user@example.com", "have a nice day")

		assert.NoError(t, err)
		assert.False(t, outcome.Flagged)
		assert.Empty(t, enqueuer.captured())
	})

	t.Run("rejects empty text before touching the store", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		svc := newService(repo, new(providermocks.Client), newMemoryCache(), newCaptureEnqueuer())

		_, err := svc.ModerateText(context.Background(), "user@example.com", "")

		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized text", func(t *testing.T) {
		svc := newService(new(domainmocks.Repository), new(providermocks.Client), newMemoryCache(), newCaptureEnqueuer())

		_, err := svc.ModerateText(context.Background(), "user@example.com", strings.Repeat("a", 10001))

		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("length bound counts characters, not bytes", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)
		// 10,000 two-byte runes: within the character bound despite being
		// 20,000 bytes.
		text := strings.Repeat("é", 10000)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, text).
			Return(completion(`{"classification": "safe", "confidence": 0.9}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		_, err := svc.ModerateText(context.Background(), "user@example.com", text)
		assert.NoError(t, err)

		_, err = svc.ModerateText(context.Background(), "user@example.com", strings.Repeat("é", 10001))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("reuses verdict from store without dispatching", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		enqueuer := newCaptureEnqueuer()
		existing := pendingRequest(domain.ContentKindText)
		verdict := &domain.Verdict{
			ID:             uuid.New(),
			RequestID:      existing.ID,
			Classification: domain.ClassificationSpam,
			Confidence:     0.8,
		}

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(existing, nil)
		repo.On("LatestVerdict", mock.Anything, existing.ID).Return(verdict, nil)

		cache := newMemoryCache()
		svc := newService(repo, upstream, cache, enqueuer)
		outcome, err := svc.ModerateText(context.Background(), "other@example.com", "buy now cheap pills")

		assert.NoError(t, err)
		assert.True(t, outcome.CacheHit)
		assert.True(t, outcome.Flagged)
		assert.Equal(t, existing.ID, outcome.RequestID)
		assert.Empty(t, enqueuer.captured())
		upstream.AssertNotCalled(t, "ClassifyText", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("normalized text variants share one verdict", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "safe", "confidence": 1}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		cache := newMemoryCache()
		svc := newService(repo, upstream, cache, newCaptureEnqueuer())

		first, err := svc.ModerateText(context.Background(), "a@example.com", "Hello   World")
		assert.NoError(t, err)
		second, err := svc.ModerateText(context.Background(), "b@example.com", "  hello world ")
		assert.NoError(t, err)

		assert.False(t, first.CacheHit)
		assert.True(t, second.CacheHit)
		assert.Equal(t, first.RequestID, second.RequestID)
		upstream.AssertNumberOfCalls(t, "ClassifyText", 1)
	})

	t.Run("prior request without verdict classifies fresh", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		existing := pendingRequest(domain.ContentKindText)
		existing.Status = domain.StatusFailed
		fresh := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(existing, nil)
		repo.On("LatestVerdict", mock.Anything, existing.ID).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(fresh, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "safe", "confidence": 1}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, fresh.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		outcome, err := svc.ModerateText(context.Background(), "user@example.com", "ambiguous content")

		assert.NoError(t, err)
		assert.False(t, outcome.CacheHit)
		assert.Equal(t, fresh.ID, outcome.RequestID)
	})

	t.Run("upstream failure marks request failed", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream exploded"))
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusFailed).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		_, err := svc.ModerateText(context.Background(), "user@example.com", "some text")

		assert.True(t, errors.Is(err, domain.ErrUpstreamError))
		repo.AssertCalled(t, "SetStatus", mock.Anything, req.ID, domain.StatusFailed)
	})

	t.Run("timeout maps to upstream unavailable", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, context.DeadlineExceeded)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusFailed).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		_, err := svc.ModerateText(context.Background(), "user@example.com", "slow text")

		assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	})

	t.Run("verdict persistence failure marks request failed", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "toxic", "confidence": 0.9}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusFailed).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		_, err := svc.ModerateText(context.Background(), "user@example.com", "some text")

		assert.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrUpstreamError))
		repo.AssertCalled(t, "SetStatus", mock.Anything, req.ID, domain.StatusFailed)
	})

	t.Run("status update failure after durable verdict still succeeds", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "safe", "confidence": 1}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(errors.New("deadlock"))

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		outcome, err := svc.ModerateText(context.Background(), "user@example.com", "fine text")

		assert.NoError(t, err)
		assert.False(t, outcome.Flagged)
	})

	t.Run("cache errors fall through to the store", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		req := pendingRequest(domain.ContentKindText)
		cache := newMemoryCache()
		cache.getErr = errors.New("redis down")

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "safe", "confidence": 1}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, cache, newCaptureEnqueuer())
		outcome, err := svc.ModerateText(context.Background(), "user@example.com", "some text")

		assert.NoError(t, err)
		assert.False(t, outcome.CacheHit)
	})

	t.Run("long preview is truncated", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		enqueuer := newCaptureEnqueuer()
		req := pendingRequest(domain.ContentKindText)
		text := strings.Repeat("x", 500)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "spam", "confidence": 0.7, "flagged": true}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), enqueuer)
		_, err := svc.ModerateText(context.Background(), "user@example.com", text)

		assert.NoError(t, err)
		jobs := enqueuer.captured()
		assert.Len(t, jobs, 1)
		assert.Equal(t, strings.Repeat("x", 200)+"...", jobs[0].ContentPreview)
	})

	t.Run("multi-byte preview truncates on a rune boundary", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		enqueuer := newCaptureEnqueuer()
		req := pendingRequest(domain.ContentKindText)
		text := strings.Repeat("é", 500)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindText, mock.Anything).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything, domain.ContentKindText, mock.Anything).Return(req, nil)
		upstream.On("ClassifyText", mock.Anything, mock.Anything, mock.Anything).
			Return(completion(`{"classification": "spam", "confidence": 0.7, "flagged": true}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), enqueuer)
		_, err := svc.ModerateText(context.Background(), "user@example.com", text)

		assert.NoError(t, err)
		jobs := enqueuer.captured()
		assert.Len(t, jobs, 1)
		assert.Equal(t, strings.Repeat("é", 200)+"...", jobs[0].ContentPreview)
		assert.True(t, utf8.ValidString(jobs[0].ContentPreview))
	})
}

func TestModerateImage(t *testing.T) {
	content := &image.Content{
		Bytes:       []byte{0xFF, 0xD8, 0xFF, 0x00},
		MimeType:    "image/jpeg",
		Fingerprint: strings.Repeat("ab", 32),
		Preview:     "Image from URL: https://example.com/pic.jpg",
	}

	t.Run("classifies image content", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		enqueuer := newCaptureEnqueuer()
		req := pendingRequest(domain.ContentKindImage)

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindImage, content.Fingerprint).Return(nil, nil)
		repo.On("Create", mock.Anything, "user@example.com", domain.ContentKindImage, content.Fingerprint).Return(req, nil)
		upstream.On("ClassifyImage", mock.Anything, mock.Anything, content.Bytes, "image/jpeg", content.Preview).
			Return(completion(`{"classification": "inappropriate", "confidence": 0.85, "flagged": true}`), nil)
		repo.On("SaveVerdict", mock.Anything, mock.Anything).Return(nil)
		repo.On("SetStatus", mock.Anything, req.ID, domain.StatusCompleted).Return(nil)

		svc := newService(repo, upstream, newMemoryCache(), enqueuer)
		outcome, err := svc.ModerateImage(context.Background(), "user@example.com", content)

		assert.NoError(t, err)
		assert.True(t, outcome.Flagged)
		assert.Equal(t, domain.ClassificationInappropriate, outcome.Verdict.Classification)
		jobs := enqueuer.captured()
		assert.Len(t, jobs, 1)
		assert.Equal(t, domain.ContentKindImage, jobs[0].ContentKind)
		assert.Equal(t, content.Preview, jobs[0].ContentPreview)
	})

	t.Run("rejects nil content", func(t *testing.T) {
		svc := newService(new(domainmocks.Repository), new(providermocks.Client), newMemoryCache(), newCaptureEnqueuer())

		_, err := svc.ModerateImage(context.Background(), "user@example.com", nil)

		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("reuses existing image verdict", func(t *testing.T) {
		repo := new(domainmocks.Repository)
		upstream := new(providermocks.Client)
		existing := pendingRequest(domain.ContentKindImage)
		verdict := &domain.Verdict{RequestID: existing.ID, Classification: domain.ClassificationSafe, Confidence: 0.95}

		repo.On("FindByFingerprint", mock.Anything, domain.ContentKindImage, content.Fingerprint).Return(existing, nil)
		repo.On("LatestVerdict", mock.Anything, existing.ID).Return(verdict, nil)

		svc := newService(repo, upstream, newMemoryCache(), newCaptureEnqueuer())
		outcome, err := svc.ModerateImage(context.Background(), "user@example.com", content)

		assert.NoError(t, err)
		assert.True(t, outcome.CacheHit)
		assert.False(t, outcome.Flagged)
		upstream.AssertNotCalled(t, "ClassifyImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
