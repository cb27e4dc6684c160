package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// schedule with availability and the intro text. The optional cache
// middleware is applied only to the schedule listing, which is the one
// endpoint every user hits on every interaction; pass nil to serve it
// uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/schedule", p.GetSchedule, cache)
	} else {
		e.GET("/v1/schedule", p.GetSchedule)
	}
	e.GET("/v1/intro", p.GetIntro)
}
