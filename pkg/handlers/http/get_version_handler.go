package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ContentGuard/ModGate/pkg/version"
)

type getVersionHandler struct {
	logger *logrus.Logger
}

func NewGetVersionHandler(logger *logrus.Logger) Handler {
	return &getVersionHandler{
		logger: logger,
	}
}

func (h *getVersionHandler) Handle(c *fiber.Ctx) error {
	versionInfo := version.GetInfo()
	return c.Status(fiber.StatusOK).JSON(versionInfo)
}
