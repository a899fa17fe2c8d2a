package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/domain/moderation"
	"github.com/ContentGuard/ModGate/pkg/infra/fingerprint"
	"github.com/ContentGuard/ModGate/pkg/infra/httpx"
)

// MaxImageBytes caps fetched and decoded image payloads.
const MaxImageBytes = 10 * 1024 * 1024

// Content is a validated image ready for classification.
type Content struct {
	Bytes       []byte
	MimeType    string
	Fingerprint string
	Preview     string
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=image_service_mock.go --case=underscore --with-expecter

// Service resolves image submissions into validated content. URL submissions
// are fingerprinted by the reference, base64 submissions by the decoded bytes.
type Service interface {
	FromURL(ctx context.Context, rawURL string) (*Content, error)
	FromBase64(ctx context.Context, encoded string) (*Content, error)
}

type service struct {
	client httpx.Client
	logger *logrus.Logger
}

func NewService(client httpx.Client, logger *logrus.Logger) Service {
	return &service{
		client: client,
		logger: logger,
	}
}

func (s *service) FromURL(ctx context.Context, rawURL string) (*Content, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: image_url must be an absolute http(s) URL", moderation.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", moderation.ErrInvalidInput, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("url", rawURL).Error("image fetch failed")
		return nil, fmt.Errorf("%w: failed to fetch image", moderation.ErrInvalidContent)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.WithFields(logrus.Fields{
			"url":    rawURL,
			"status": resp.StatusCode,
		}).Error("image fetch returned non-200")
		return nil, fmt.Errorf("%w: image fetch returned status %d", moderation.ErrInvalidContent, resp.StatusCode)
	}

	// Read one byte past the cap to tell "exactly at cap" from "over cap".
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image body", moderation.ErrInvalidContent)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", moderation.ErrPayloadTooLarge, MaxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image body is empty", moderation.ErrInvalidContent)
	}

	mimeType, err := sniffImageType(data)
	if err != nil {
		return nil, err
	}

	return &Content{
		Bytes:       data,
		MimeType:    mimeType,
		Fingerprint: fingerprint.URL(rawURL),
		Preview:     "Image from URL: " + rawURL,
	}, nil
}

func (s *service) FromBase64(ctx context.Context, encoded string) (*Content, error) {
	fp, data, err := fingerprint.ImagePayload(encoded)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", moderation.ErrPayloadTooLarge, MaxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image payload is empty", moderation.ErrInvalidContent)
	}

	mimeType, err := sniffImageType(data)
	if err != nil {
		return nil, err
	}

	return &Content{
		Bytes:       data,
		MimeType:    mimeType,
		Fingerprint: fp,
		Preview:     "Image from base64 data",
	}, nil
}

// sniffImageType detects the format from magic bytes. Content-Type headers
// and data URI prefixes are not trusted.
func sniffImageType(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg", nil
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png", nil
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("GIF8")):
		return "image/gif", nil
	case len(data) >= 2 && bytes.Equal(data[:2], []byte("BM")):
		return "image/bmp", nil
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp", nil
	default:
		return "", fmt.Errorf("%w: supported formats are JPEG, PNG, GIF, BMP, WEBP", moderation.ErrUnsupportedFormat)
	}
}
