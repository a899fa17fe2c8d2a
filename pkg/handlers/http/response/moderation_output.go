package response

import (
	appmoderation "github.com/ContentGuard/ModGate/pkg/app/moderation"
)

const cachedResultMessage = "Content moderated successfully (cached result)"

type ModerationOutput struct {
	Success        bool    `json:"success"`
	RequestID      string  `json:"request_id"`
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Flagged        bool    `json:"flagged"`
	Message        string  `json:"message"`
}

// NewModerationOutput shapes a pipeline outcome for the API. Dedup hits carry
// the cached-result marker in the message.
func NewModerationOutput(outcome *appmoderation.Outcome) ModerationOutput {
	message := "Content moderated successfully"
	if outcome.CacheHit {
		message = cachedResultMessage
	}
	return ModerationOutput{
		Success:        true,
		RequestID:      outcome.RequestID.String(),
		Classification: string(outcome.Verdict.Classification),
		Confidence:     outcome.Verdict.Confidence,
		Reasoning:      outcome.Verdict.Reasoning,
		Flagged:        outcome.Flagged,
		Message:        message,
	}
}
