package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/handler"
	"github.com/mkravets/class-booking/internal/middleware"
)

// RegisterAdmin registers the management endpoints under /v1/admin.
// Every route requires a valid JWT whose user id passes the isAdmin
// check; the middleware rejects everyone else with 403 before any
// handler runs.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, isAdmin func(uint64) bool) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(isAdmin),
	)
	g.POST("/sessions", h.CreateSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.DELETE("/sessions", h.ClearSessions)
	g.POST("/sessions/:id/move", h.MoveSession)
	g.GET("/reservations", h.ListReservations)
	g.POST("/broadcast", h.Broadcast)
	g.PUT("/intro", h.SetIntro)
}
