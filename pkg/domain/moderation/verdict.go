package moderation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Classification string

const (
	ClassificationSafe          Classification = "safe"
	ClassificationToxic         Classification = "toxic"
	ClassificationSpam          Classification = "spam"
	ClassificationHarassment    Classification = "harassment"
	ClassificationInappropriate Classification = "inappropriate"
)

// ParseClassification maps an upstream-reported classification onto the fixed
// taxonomy. Unknown or empty values degrade to safe.
func ParseClassification(s string) Classification {
	switch Classification(strings.ToLower(strings.TrimSpace(s))) {
	case ClassificationToxic:
		return ClassificationToxic
	case ClassificationSpam:
		return ClassificationSpam
	case ClassificationHarassment:
		return ClassificationHarassment
	case ClassificationInappropriate:
		return ClassificationInappropriate
	default:
		return ClassificationSafe
	}
}

// Verdict is the structured classification result for one request. Immutable
// once written; the latest per request (by creation time) is authoritative.
// UpstreamFlagged records what the model claimed and is audit-only: whether a
// verdict gates notifications is always Flagged(), never the upstream field.
type Verdict struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID       uuid.UUID      `json:"request_id" gorm:"type:uuid;index"`
	Classification  Classification `json:"classification"`
	Confidence      float64        `json:"confidence"`
	Reasoning       string         `json:"reasoning"`
	RawResponse     string         `json:"raw_response,omitempty"`
	UpstreamFlagged bool           `json:"upstream_flagged"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (Verdict) TableName() string {
	return "public.moderation_verdicts"
}

func (v Verdict) Flagged() bool {
	return v.Classification != ClassificationSafe
}
