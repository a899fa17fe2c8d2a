package moderation

import "time"

// SubmitterSummary is the per-submitter rollup of moderation activity.
type SubmitterSummary struct {
	Submitter            string     `json:"submitter"`
	TotalRequests        int64      `json:"total_requests"`
	TextRequests         int64      `json:"text_requests"`
	ImageRequests        int64      `json:"image_requests"`
	SafeContent          int64      `json:"safe_content"`
	FlaggedContent       int64      `json:"flagged_content"`
	ToxicContent         int64      `json:"toxic_content"`
	SpamContent          int64      `json:"spam_content"`
	HarassmentContent    int64      `json:"harassment_content"`
	InappropriateContent int64      `json:"inappropriate_content"`
	AverageConfidence    float64    `json:"average_confidence"`
	LastRequestAt        *time.Time `json:"last_request_at,omitempty"`
}

// OverallStats is the service-wide rollup: totals per classification and the
// share of flagged verdicts.
type OverallStats struct {
	TotalRequests        int64   `json:"total_requests"`
	TotalVerdicts        int64   `json:"total_verdicts"`
	SafeContent          int64   `json:"safe_content"`
	ToxicContent         int64   `json:"toxic_content"`
	SpamContent          int64   `json:"spam_content"`
	HarassmentContent    int64   `json:"harassment_content"`
	InappropriateContent int64   `json:"inappropriate_content"`
	FlagRate             float64 `json:"flag_rate"`
}
