package notification

import (
	"context"
	"time"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/google/uuid"
)

// Job is one dispatch unit handed off by the moderation pipeline after the
// caller-facing response is finalized. RequestCreatedAt anchors the sent
// timestamp of successful attempts.
type Job struct {
	RequestID        uuid.UUID
	Submitter        string
	Classification   domain.Classification
	ContentKind      domain.ContentKind
	ContentPreview   string
	Confidence       float64
	Reasoning        string
	RequestCreatedAt time.Time
}

// Enqueuer is the pipeline-facing side of the dispatcher: a non-blocking
// handoff. Returns false when the job was dropped (queue full or stopped).
type Enqueuer interface {
	Enqueue(job Job) bool
}

// Message is the channel-agnostic alert content built from a job.
type Message struct {
	RequestID      uuid.UUID
	Submitter      string
	Classification domain.Classification
	ContentKind    domain.ContentKind
	ContentPreview string
	Confidence     float64
	Reasoning      string
}

// Channel is one notification delivery mechanism. Send failures are isolated
// per channel; implementations must respect ctx deadlines.
type Channel interface {
	Name() domain.NotificationChannel
	Send(ctx context.Context, msg *Message) error
}
