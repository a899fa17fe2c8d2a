package moderation

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	NotificationChannelSlack NotificationChannel = "slack"
	NotificationChannelEmail NotificationChannel = "email"
)

type NotificationOutcome string

const (
	NotificationOutcomeSent   NotificationOutcome = "sent"
	NotificationOutcomeFailed NotificationOutcome = "failed"
)

// NotificationAttempt records one dispatch attempt per (request, channel).
// Immutable once written. ErrorDetail is set iff the outcome is failed.
// Successful attempts anchor SentAt to the owning request's creation time
// rather than the wall time of the send.
type NotificationAttempt struct {
	ID          uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID           `json:"request_id" gorm:"type:uuid;index"`
	Channel     NotificationChannel `json:"channel"`
	Outcome     NotificationOutcome `json:"outcome"`
	ErrorDetail string              `json:"error_detail,omitempty"`
	SentAt      *time.Time          `json:"sent_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func (NotificationAttempt) TableName() string {
	return "public.notification_attempts"
}
