package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

type getRequestHandler struct {
	logger *logrus.Logger
	repo   domain.Repository
}

func NewGetRequestHandler(logger *logrus.Logger, repo domain.Repository) Handler {
	return &getRequestHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *getRequestHandler) Handle(c *fiber.Ctx) error {
	requestID := c.Params("request_id")
	requestUUID, err := uuid.Parse(requestID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request_id"})
	}

	req, err := h.repo.Get(c.Context(), requestUUID)
	if err != nil {
		h.logger.WithError(err).WithField("request_id", requestID).Error("failed to get moderation request")
		status, message := statusForError(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	return c.Status(fiber.StatusOK).JSON(req)
}
