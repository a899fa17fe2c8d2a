package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

type ModerationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) moderation.Repository {
	return &ModerationRepository{
		db: db,
	}
}

func (r *ModerationRepository) FindByFingerprint(
	ctx context.Context,
	kind moderation.ContentKind,
	fingerprint string,
) (*moderation.Request, error) {
	entity := new(moderation.Request)
	err := r.db.WithContext(ctx).
		Where("content_kind = ? AND fingerprint = ?", kind, fingerprint).
		Order("created_at DESC").
		First(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fingerprint lookup failed: %w", err)
	}
	return entity, nil
}

func (r *ModerationRepository) LatestVerdict(ctx context.Context, requestID uuid.UUID) (*moderation.Verdict, error) {
	entity := new(moderation.Verdict)
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		First(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("verdict lookup failed: %w", err)
	}
	return entity, nil
}

func (r *ModerationRepository) Create(
	ctx context.Context,
	submitter string,
	kind moderation.ContentKind,
	fingerprint string,
) (*moderation.Request, error) {
	entity := &moderation.Request{
		ID:          uuid.New(),
		Submitter:   submitter,
		ContentKind: kind,
		Fingerprint: fingerprint,
		Status:      moderation.StatusProcessing,
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("failed to create moderation request: %w", err)
	}
	return entity, nil
}

func (r *ModerationRepository) SaveVerdict(ctx context.Context, verdict *moderation.Verdict) error {
	if verdict.ID == uuid.Nil {
		verdict.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(verdict).Error; err != nil {
		return fmt.Errorf("failed to save verdict: %w", err)
	}
	return nil
}

func (r *ModerationRepository) SetStatus(ctx context.Context, requestID uuid.UUID, status moderation.Status) error {
	result := r.db.WithContext(ctx).
		Model(&moderation.Request{}).
		Where("id = ?", requestID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update request status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("request %s: %w", requestID, moderation.ErrNotFound)
	}
	return nil
}

func (r *ModerationRepository) RecordNotification(ctx context.Context, attempt *moderation.NotificationAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return nil
}

func (r *ModerationRepository) Get(ctx context.Context, requestID uuid.UUID) (*moderation.Request, error) {
	entity := new(moderation.Request)
	err := r.db.WithContext(ctx).
		Preload("Verdicts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Notifications").
		Where("id = ?", requestID).
		First(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request %s: %w", requestID, moderation.ErrNotFound)
		}
		return nil, fmt.Errorf("request lookup failed: %w", err)
	}
	return entity, nil
}
