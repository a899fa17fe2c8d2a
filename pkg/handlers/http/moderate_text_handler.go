package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	appmoderation "github.com/ContentGuard/ModGate/pkg/app/moderation"
	"github.com/ContentGuard/ModGate/pkg/handlers/http/request"
	"github.com/ContentGuard/ModGate/pkg/handlers/http/response"
)

type moderateTextHandler struct {
	logger  *logrus.Logger
	service appmoderation.Service
}

func NewModerateTextHandler(logger *logrus.Logger, service appmoderation.Service) Handler {
	return &moderateTextHandler{
		logger:  logger,
		service: service,
	}
}

func (h *moderateTextHandler) Handle(c *fiber.Ctx) error {
	var req request.ModerateTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	outcome, err := h.service.ModerateText(c.Context(), req.Email, req.Text)
	if err != nil {
		h.logger.WithError(err).WithField("submitter", req.Email).Error("text moderation failed")
		status, message := statusForError(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	return c.Status(fiber.StatusOK).JSON(response.NewModerationOutput(outcome))
}
