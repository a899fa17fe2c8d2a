package router

import "github.com/gofiber/fiber/v2"

// ServerRouter registers a group of routes on the fiber app. The moderation
// server composes one router per API surface.
type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}
