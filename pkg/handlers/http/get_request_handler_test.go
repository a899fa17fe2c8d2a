package http

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
	domainMocks "github.com/ContentGuard/ModGate/pkg/domain/moderation/mocks"
)

func TestGetRequestHandler_Success(t *testing.T) {
	repo := new(domainMocks.Repository)
	handler := NewGetRequestHandler(logrus.New(), repo)

	app := fiber.New()
	app.Get("/api/v1/moderate/requests/:request_id", handler.Handle)

	requestID := uuid.New()
	stored := &domain.Request{
		ID:          requestID,
		Submitter:   "user@example.com",
		ContentKind: domain.ContentKindText,
		Status:      domain.StatusCompleted,
		Verdicts: []domain.Verdict{
			{ID: uuid.New(), RequestID: requestID, Classification: domain.ClassificationSpam, Confidence: 0.8},
		},
		Notifications: []domain.NotificationAttempt{
			{ID: uuid.New(), RequestID: requestID, Channel: domain.NotificationChannelSlack, Outcome: domain.NotificationOutcomeSent},
		},
	}
	repo.On("Get", mock.Anything, requestID).Return(stored, nil)

	req := httptest.NewRequest("GET", "/api/v1/moderate/requests/"+requestID.String(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, requestID.String(), body["id"])
	assert.Equal(t, "completed", body["status"])
	assert.Len(t, body["verdicts"], 1)
	assert.Len(t, body["notifications"], 1)
}

func TestGetRequestHandler_InvalidID(t *testing.T) {
	repo := new(domainMocks.Repository)
	handler := NewGetRequestHandler(logrus.New(), repo)

	app := fiber.New()
	app.Get("/api/v1/moderate/requests/:request_id", handler.Handle)

	req := httptest.NewRequest("GET", "/api/v1/moderate/requests/not-a-uuid", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetRequestHandler_NotFound(t *testing.T) {
	repo := new(domainMocks.Repository)
	handler := NewGetRequestHandler(logrus.New(), repo)

	app := fiber.New()
	app.Get("/api/v1/moderate/requests/:request_id", handler.Handle)

	requestID := uuid.New()
	repo.On("Get", mock.Anything, requestID).Return(nil, fmt.Errorf("request %s: %w", requestID, domain.ErrNotFound))

	req := httptest.NewRequest("GET", "/api/v1/moderate/requests/"+requestID.String(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
