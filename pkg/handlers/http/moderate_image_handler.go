package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/app/image"
	appmoderation "github.com/ContentGuard/ModGate/pkg/app/moderation"
	"github.com/ContentGuard/ModGate/pkg/handlers/http/request"
	"github.com/ContentGuard/ModGate/pkg/handlers/http/response"
)

type moderateImageHandler struct {
	logger       *logrus.Logger
	service      appmoderation.Service
	imageService image.Service
}

func NewModerateImageHandler(
	logger *logrus.Logger,
	service appmoderation.Service,
	imageService image.Service,
) Handler {
	return &moderateImageHandler{
		logger:       logger,
		service:      service,
		imageService: imageService,
	}
}

func (h *moderateImageHandler) Handle(c *fiber.Ctx) error {
	var req request.ModerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var (
		content *image.Content
		err     error
	)
	if req.ImageURL != "" {
		content, err = h.imageService.FromURL(c.Context(), req.ImageURL)
	} else {
		content, err = h.imageService.FromBase64(c.Context(), req.ImageBase64)
	}
	if err != nil {
		h.logger.WithError(err).WithField("submitter", req.Email).Error("image resolution failed")
		status, message := statusForError(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	outcome, err := h.service.ModerateImage(c.Context(), req.Email, content)
	if err != nil {
		h.logger.WithError(err).WithField("submitter", req.Email).Error("image moderation failed")
		status, message := statusForError(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	return c.Status(fiber.StatusOK).JSON(response.NewModerationOutput(outcome))
}
