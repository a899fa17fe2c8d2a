package router

import (
	"github.com/gofiber/fiber/v2"

	handlers "github.com/ContentGuard/ModGate/pkg/handlers/http"
)

type moderationRouter struct {
	handlerTransport handlers.HandlerTransport
}

func NewModerationRouter(handlerTransport handlers.HandlerTransport) ServerRouter {
	return &moderationRouter{
		handlerTransport: handlerTransport,
	}
}

func (r *moderationRouter) BuildRoutes(router *fiber.App) error {
	v1 := router.Group("/api/v1")
	{
		moderate := v1.Group("/moderate")
		{
			moderate.Post("/text", r.handlerTransport.ModerateTextHandler.Handle)
			moderate.Post("/image", r.handlerTransport.ModerateImageHandler.Handle)
			moderate.Get("/requests/:request_id", r.handlerTransport.GetRequestHandler.Handle)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.Get("/summary", r.handlerTransport.AnalyticsSummaryHandler.Handle)
			analytics.Get("/summary/all", r.handlerTransport.OverallStatsHandler.Handle)
		}

		v1.Get("/version", r.handlerTransport.GetVersionHandler.Handle)
	}
	return nil
}
