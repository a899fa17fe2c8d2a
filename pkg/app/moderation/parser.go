package moderation

import (
	"strconv"
	"strings"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/valyala/fastjson"
)

const (
	defaultConfidence = 0.5

	reasoningNoFragment = "no structured verdict found in upstream response"
	reasoningBadJSON    = "failed to decode structured verdict from upstream response"
)

// ParsedVerdict is the structured reading of a raw upstream response.
// UpstreamFlagged is what the model claimed; callers must gate on
// Classification, never on this field.
type ParsedVerdict struct {
	Classification  domain.Classification
	Confidence      float64
	Reasoning       string
	UpstreamFlagged bool
	Raw             string
}

// ParseVerdict extracts a verdict from the free-form upstream response. It is
// total: any input, including empty or junk, yields a well-formed verdict.
// The scan takes the leftmost '{' through the rightmost '}' as the candidate
// JSON fragment; prose around it is ignored. Missing or malformed fields
// degrade field-by-field rather than failing the whole response.
func ParseVerdict(raw string) ParsedVerdict {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return fallbackVerdict(raw, reasoningNoFragment)
	}

	value, err := fastjson.Parse(raw[start : end+1])
	if err != nil || value.Type() != fastjson.TypeObject {
		return fallbackVerdict(raw, reasoningBadJSON)
	}

	verdict := ParsedVerdict{
		Classification:  domain.ParseClassification(string(value.GetStringBytes("classification"))),
		Confidence:      parseConfidence(value.Get("confidence")),
		Reasoning:       string(value.GetStringBytes("reasoning")),
		UpstreamFlagged: value.GetBool("flagged"),
		Raw:             raw,
	}
	return verdict
}

func fallbackVerdict(raw, reasoning string) ParsedVerdict {
	return ParsedVerdict{
		Classification:  domain.ClassificationSafe,
		Confidence:      defaultConfidence,
		Reasoning:       reasoning,
		UpstreamFlagged: false,
		Raw:             raw,
	}
}

// parseConfidence coerces the upstream confidence to a float in [0, 1].
// Accepts JSON numbers and numeric strings; anything else defaults to 0.5.
func parseConfidence(value *fastjson.Value) float64 {
	if value == nil {
		return defaultConfidence
	}

	var confidence float64
	switch value.Type() {
	case fastjson.TypeNumber:
		f, err := value.Float64()
		if err != nil {
			return defaultConfidence
		}
		confidence = f
	case fastjson.TypeString:
		f, err := strconv.ParseFloat(string(value.GetStringBytes()), 64)
		if err != nil {
			return defaultConfidence
		}
		confidence = f
	default:
		return defaultConfidence
	}

	return clamp(confidence, 0.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
