package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	analyticsMocks "github.com/ContentGuard/ModGate/pkg/app/analytics/mocks"
	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

func TestAnalyticsSummaryHandler(t *testing.T) {
	t.Run("returns submitter summary", func(t *testing.T) {
		service := new(analyticsMocks.Service)
		handler := NewAnalyticsSummaryHandler(logrus.New(), service)

		app := fiber.New()
		app.Get("/api/v1/analytics/summary", handler.Handle)

		service.On("SubmitterSummary", mock.Anything, "user@example.com").Return(&domain.SubmitterSummary{
			Submitter:      "user@example.com",
			TotalRequests:  10,
			FlaggedContent: 2,
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/analytics/summary?user=user%40example.com", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["submitter"])
		assert.Equal(t, float64(10), body["total_requests"])
	})

	t.Run("missing user parameter", func(t *testing.T) {
		service := new(analyticsMocks.Service)
		handler := NewAnalyticsSummaryHandler(logrus.New(), service)

		app := fiber.New()
		app.Get("/api/v1/analytics/summary", handler.Handle)

		req := httptest.NewRequest("GET", "/api/v1/analytics/summary", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		service.AssertNotCalled(t, "SubmitterSummary", mock.Anything, mock.Anything)
	})

	t.Run("service error maps to 500", func(t *testing.T) {
		service := new(analyticsMocks.Service)
		handler := NewAnalyticsSummaryHandler(logrus.New(), service)

		app := fiber.New()
		app.Get("/api/v1/analytics/summary", handler.Handle)

		service.On("SubmitterSummary", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		req := httptest.NewRequest("GET", "/api/v1/analytics/summary?user=a%40b.com", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestOverallStatsHandler(t *testing.T) {
	t.Run("returns overall rollup", func(t *testing.T) {
		service := new(analyticsMocks.Service)
		handler := NewOverallStatsHandler(logrus.New(), service)

		app := fiber.New()
		app.Get("/api/v1/analytics/summary/all", handler.Handle)

		service.On("OverallStats", mock.Anything).Return(&domain.OverallStats{
			TotalRequests: 50,
			TotalVerdicts: 45,
			FlagRate:      0.2,
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/analytics/summary/all", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(50), body["total_requests"])
		assert.Equal(t, 0.2, body["flag_rate"])
	})

	t.Run("service error maps to 500", func(t *testing.T) {
		service := new(analyticsMocks.Service)
		handler := NewOverallStatsHandler(logrus.New(), service)

		app := fiber.New()
		app.Get("/api/v1/analytics/summary/all", handler.Handle)

		service.On("OverallStats", mock.Anything).Return(nil, errors.New("query failed"))

		req := httptest.NewRequest("GET", "/api/v1/analytics/summary/all", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}
