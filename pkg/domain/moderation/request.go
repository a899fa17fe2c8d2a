package moderation

import (
	"time"

	"github.com/google/uuid"
)

type ContentKind string

const (
	ContentKindText  ContentKind = "text"
	ContentKindImage ContentKind = "image"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request is one moderation request per distinct (submitter, content, kind)
// at first-seen time. Later submissions of identical content reuse the latest
// verdict of the most recently created request sharing the fingerprint.
type Request struct {
	ID            uuid.UUID             `json:"id" gorm:"type:uuid;primaryKey"`
	Submitter     string                `json:"submitter" gorm:"index"`
	ContentKind   ContentKind           `json:"content_kind"`
	Fingerprint   string                `json:"fingerprint" gorm:"size:64;index"`
	Status        Status                `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Verdicts      []Verdict             `json:"verdicts,omitempty" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Notifications []NotificationAttempt `json:"notifications,omitempty" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

func (Request) TableName() string {
	return "public.moderation_requests"
}

func (r Request) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
