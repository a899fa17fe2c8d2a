package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/app/analytics"
)

type analyticsSummaryHandler struct {
	logger  *logrus.Logger
	service analytics.Service
}

func NewAnalyticsSummaryHandler(logger *logrus.Logger, service analytics.Service) Handler {
	return &analyticsSummaryHandler{
		logger:  logger,
		service: service,
	}
}

func (h *analyticsSummaryHandler) Handle(c *fiber.Ctx) error {
	submitter := c.Query("user")
	if submitter == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user query parameter is required"})
	}

	summary, err := h.service.SubmitterSummary(c.Context(), submitter)
	if err != nil {
		h.logger.WithError(err).WithField("submitter", submitter).Error("failed to build submitter summary")
		status, message := statusForError(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
