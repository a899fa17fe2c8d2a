package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Moderation
	ModerateTextHandler  Handler
	ModerateImageHandler Handler
	GetRequestHandler    Handler

	// Analytics
	AnalyticsSummaryHandler Handler
	OverallStatsHandler     Handler

	// Misc
	GetVersionHandler Handler
}
