package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/app/analytics"
)

type overallStatsHandler struct {
	logger  *logrus.Logger
	service analytics.Service
}

func NewOverallStatsHandler(logger *logrus.Logger, service analytics.Service) Handler {
	return &overallStatsHandler{
		logger:  logger,
		service: service,
	}
}

func (h *overallStatsHandler) Handle(c *fiber.Ctx) error {
	stats, err := h.service.OverallStats(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to build overall stats")
		status, message := statusForError(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
