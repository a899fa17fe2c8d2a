package mocks

import (
	"context"

	"github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) FindByFingerprint(
	ctx context.Context,
	kind moderation.ContentKind,
	fingerprint string,
) (*moderation.Request, error) {
	args := m.Called(ctx, kind, fingerprint)
	req, _ := args.Get(0).(*moderation.Request)
	return req, args.Error(1)
}

func (m *Repository) LatestVerdict(ctx context.Context, requestID uuid.UUID) (*moderation.Verdict, error) {
	args := m.Called(ctx, requestID)
	verdict, _ := args.Get(0).(*moderation.Verdict)
	return verdict, args.Error(1)
}

func (m *Repository) Create(
	ctx context.Context,
	submitter string,
	kind moderation.ContentKind,
	fingerprint string,
) (*moderation.Request, error) {
	args := m.Called(ctx, submitter, kind, fingerprint)
	req, _ := args.Get(0).(*moderation.Request)
	return req, args.Error(1)
}

func (m *Repository) SaveVerdict(ctx context.Context, verdict *moderation.Verdict) error {
	args := m.Called(ctx, verdict)
	return args.Error(0)
}

func (m *Repository) SetStatus(ctx context.Context, requestID uuid.UUID, status moderation.Status) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func (m *Repository) RecordNotification(ctx context.Context, attempt *moderation.NotificationAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, requestID uuid.UUID) (*moderation.Request, error) {
	args := m.Called(ctx, requestID)
	req, _ := args.Get(0).(*moderation.Request)
	return req, args.Error(1)
}
