package moderation

import (
	"context"
	"time"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/google/uuid"
)

// Outcome is the caller-facing result of one submission. CacheHit marks
// verdicts reused from an earlier request with identical content.
type Outcome struct {
	RequestID uuid.UUID      `json:"request_id"`
	Verdict   domain.Verdict `json:"verdict"`
	Flagged   bool           `json:"flagged"`
	CacheHit  bool           `json:"cache_hit"`
}

// CachedVerdict is the cache entry for a (kind, fingerprint) pair.
type CachedVerdict struct {
	RequestID uuid.UUID      `json:"request_id"`
	Verdict   domain.Verdict `json:"verdict"`
}

// VerdictCache is the read-through cache in front of the store dedup lookup.
// Implementations are best-effort: errors are logged, never surfaced.
type VerdictCache interface {
	GetVerdict(ctx context.Context, kind domain.ContentKind, fingerprint string) (*CachedVerdict, error)
	SaveVerdict(ctx context.Context, kind domain.ContentKind, fingerprint string, entry *CachedVerdict) error
}

// Policy bounds submissions and the upstream call.
type Policy struct {
	MaxTextLength   int
	UpstreamTimeout time.Duration
	PreviewLength   int
}

const (
	DefaultMaxTextLength   = 10000
	DefaultUpstreamTimeout = 30 * time.Second
	DefaultPreviewLength   = 200
)

// WithDefaults fills unset policy fields.
func (p Policy) WithDefaults() Policy {
	if p.MaxTextLength <= 0 {
		p.MaxTextLength = DefaultMaxTextLength
	}
	if p.UpstreamTimeout <= 0 {
		p.UpstreamTimeout = DefaultUpstreamTimeout
	}
	if p.PreviewLength <= 0 {
		p.PreviewLength = DefaultPreviewLength
	}
	return p
}
