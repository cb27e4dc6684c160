package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/handler"
	"github.com/mkravets/class-booking/internal/middleware"
)

// RegisterBooking registers the authenticated per-user endpoints under
// /v1. All routes require a valid JWT; the optional limiter middleware
// (token bucket over Redis) is applied after authentication so it can
// key buckets by user id. Pass nil to run without rate limiting.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/sessions/:id/reservations", h.Reserve)
	g.DELETE("/sessions/:id/reservations", h.Release)
	g.GET("/my-reservations", h.MyReservations)
}
