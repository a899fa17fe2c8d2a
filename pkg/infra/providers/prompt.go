package providers

import "fmt"

// The moderation prompts pin the upstream model to a fixed five-way taxonomy
// and ask for a machine-readable JSON object. Responses are still treated as
// free-form text: the parser tolerates prose around (or instead of) the
// object.

const taxonomyAndShape = `Classify it into one of these categories:
- safe: Appropriate and harmless content
- toxic: Hate speech, offensive language, or harmful content
- spam: Unwanted promotional content, scams, or repetitive messages
- harassment: Bullying, threats, or targeted abuse
- inappropriate: Content that violates community guidelines but isn't clearly toxic or spam

Respond in the following JSON format:
{
    "classification": "safe|toxic|spam|harassment|inappropriate",
    "confidence": 0.0-1.0,
    "reasoning": "Brief explanation of the classification",
    "flagged": true/false
}

Be thorough but fair in your analysis. Consider context and intent.`

// TextModerationPrompt builds the instruction for a text submission.
func TextModerationPrompt(text string) string {
	return fmt.Sprintf("Analyze the following text for inappropriate content. %s\n\nText to analyze: %q",
		taxonomyAndShape, text)
}

// ImageModerationPrompt builds the instruction for an image submission. The
// hint describes the image source (URL or inline payload), not its content.
func ImageModerationPrompt(hint string) string {
	prompt := fmt.Sprintf("Analyze this image for inappropriate content. %s", taxonomyAndShape)
	if hint != "" {
		prompt += fmt.Sprintf("\n\nImage description: %s", hint)
	}
	return prompt
}
