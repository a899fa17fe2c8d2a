// Package fingerprint derives stable content identities used for
// deduplication. All fingerprints are lowercase hex SHA-256 digests over
// normalized content, so equality is a plain string comparison.
package fingerprint

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

// Text fingerprints text content. Normalization: trim, lowercase, collapse
// internal whitespace runs to a single space. Two texts differing only in
// casing or whitespace density fingerprint identically.
func Text(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(text))), " ")
	return digest([]byte(normalized))
}

// URL fingerprints an image URL reference: trimmed and lowercased, the bytes
// of the URL itself are hashed, not the fetched image. Distinct URLs serving
// identical bytes are distinct content.
func URL(raw string) string {
	return digest([]byte(strings.ToLower(strings.TrimSpace(raw))))
}

// ImageBytes fingerprints raw image bytes.
func ImageBytes(data []byte) string {
	return digest(data)
}

// ImagePayload decodes an inline base64 image payload (with or without a
// data-URI prefix) and fingerprints the decoded bytes. Returns the decoded
// bytes alongside the fingerprint so callers do not decode twice.
func ImagePayload(encoded string) (string, []byte, error) {
	data, err := DecodeImagePayload(encoded)
	if err != nil {
		return "", nil, err
	}
	return digest(data), data, nil
}

// DecodeImagePayload strips a leading data:image/...;base64, prefix and
// base64-decodes the remainder. Malformed payloads fail with
// moderation.ErrInvalidContent.
func DecodeImagePayload(encoded string) ([]byte, error) {
	payload := encoded
	if strings.HasPrefix(payload, "data:image") {
		idx := strings.IndexByte(payload, ',')
		if idx < 0 {
			return nil, fmt.Errorf("%w: data URI without payload", moderation.ErrInvalidContent)
		}
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable base64 image payload: %v", moderation.ErrInvalidContent, err)
	}
	return data, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
