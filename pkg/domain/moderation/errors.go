package moderation

import "errors"

var (
	// ErrInvalidInput marks caller errors: empty payloads, oversized text,
	// missing fields. Raised before any store access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidContent marks undecodable payloads (e.g. malformed base64).
	ErrInvalidContent = errors.New("invalid content")

	// ErrUnsupportedFormat marks image payloads outside the format allow-list.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrPayloadTooLarge marks image payloads over the configured byte cap.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUpstreamUnavailable marks classification failures caused by network
	// errors, timeouts or cancellation.
	ErrUpstreamUnavailable = errors.New("classification upstream unavailable")

	// ErrUpstreamError marks non-success responses from the classification
	// upstream.
	ErrUpstreamError = errors.New("classification upstream error")

	// ErrNotFound marks lookups of absent entities on the read surface.
	ErrNotFound = errors.New("not found")
)
