package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) moderation.AnalyticsRepository {
	return &AnalyticsRepository{
		db: db,
	}
}

// latestVerdictsCTE selects the newest verdict per request. Older verdicts
// for the same request are superseded and excluded from rollups.
const latestVerdictsCTE = `
	SELECT DISTINCT ON (v.request_id)
		v.request_id, v.classification, v.confidence, v.created_at
	FROM public.moderation_verdicts v
	ORDER BY v.request_id, v.created_at DESC
`

func (r *AnalyticsRepository) SubmitterSummary(ctx context.Context, submitter string) (*moderation.SubmitterSummary, error) {
	summary := &moderation.SubmitterSummary{Submitter: submitter}

	row := struct {
		Total         int64
		TextRequests  int64
		ImageRequests int64
	}{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE content_kind = 'text') AS text_requests,
			COUNT(*) FILTER (WHERE content_kind = 'image') AS image_requests
		FROM public.moderation_requests
		WHERE submitter = ?
	`, submitter).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("submitter request rollup failed: %w", err)
	}
	summary.TotalRequests = row.Total
	summary.TextRequests = row.TextRequests
	summary.ImageRequests = row.ImageRequests

	if row.Total > 0 {
		var req moderation.Request
		err = r.db.WithContext(ctx).
			Where("submitter = ?", submitter).
			Order("created_at DESC").
			First(&req).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submitter last request lookup failed: %w", err)
		}
		if err == nil {
			summary.LastRequestAt = &req.CreatedAt
		}
	}

	verdictRow := struct {
		Safe          int64
		Toxic         int64
		Spam          int64
		Harassment    int64
		Inappropriate int64
		AvgConfidence float64
	}{}
	err = r.db.WithContext(ctx).Raw(`
		WITH latest AS (`+latestVerdictsCTE+`)
		SELECT
			COUNT(*) FILTER (WHERE latest.classification = 'safe') AS safe,
			COUNT(*) FILTER (WHERE latest.classification = 'toxic') AS toxic,
			COUNT(*) FILTER (WHERE latest.classification = 'spam') AS spam,
			COUNT(*) FILTER (WHERE latest.classification = 'harassment') AS harassment,
			COUNT(*) FILTER (WHERE latest.classification = 'inappropriate') AS inappropriate,
			COALESCE(AVG(latest.confidence), 0) AS avg_confidence
		FROM latest
		JOIN public.moderation_requests r ON r.id = latest.request_id
		WHERE r.submitter = ?
	`, submitter).Scan(&verdictRow).Error
	if err != nil {
		return nil, fmt.Errorf("submitter verdict rollup failed: %w", err)
	}

	summary.SafeContent = verdictRow.Safe
	summary.ToxicContent = verdictRow.Toxic
	summary.SpamContent = verdictRow.Spam
	summary.HarassmentContent = verdictRow.Harassment
	summary.InappropriateContent = verdictRow.Inappropriate
	summary.FlaggedContent = verdictRow.Toxic + verdictRow.Spam + verdictRow.Harassment + verdictRow.Inappropriate
	summary.AverageConfidence = verdictRow.AvgConfidence

	return summary, nil
}

func (r *AnalyticsRepository) OverallStats(ctx context.Context) (*moderation.OverallStats, error) {
	stats := new(moderation.OverallStats)

	if err := r.db.WithContext(ctx).
		Model(&moderation.Request{}).
		Count(&stats.TotalRequests).Error; err != nil {
		return nil, fmt.Errorf("overall request count failed: %w", err)
	}

	row := struct {
		Total         int64
		Safe          int64
		Toxic         int64
		Spam          int64
		Harassment    int64
		Inappropriate int64
	}{}
	err := r.db.WithContext(ctx).Raw(`
		WITH latest AS (` + latestVerdictsCTE + `)
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE classification = 'safe') AS safe,
			COUNT(*) FILTER (WHERE classification = 'toxic') AS toxic,
			COUNT(*) FILTER (WHERE classification = 'spam') AS spam,
			COUNT(*) FILTER (WHERE classification = 'harassment') AS harassment,
			COUNT(*) FILTER (WHERE classification = 'inappropriate') AS inappropriate
		FROM latest
	`).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("overall verdict rollup failed: %w", err)
	}

	stats.TotalVerdicts = row.Total
	stats.SafeContent = row.Safe
	stats.ToxicContent = row.Toxic
	stats.SpamContent = row.Spam
	stats.HarassmentContent = row.Harassment
	stats.InappropriateContent = row.Inappropriate
	if row.Total > 0 {
		flagged := row.Toxic + row.Spam + row.Harassment + row.Inappropriate
		stats.FlagRate = float64(flagged) / float64(row.Total)
	}

	return stats, nil
}
