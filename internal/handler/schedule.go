// Package handler defines the HTTP surface of the booking service. The
// chat gateway is the only intended client: it renders these JSON
// responses into messages and buttons and performs all user-facing
// formatting.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/repository"
)

// PublicHandler serves the unauthenticated read-only endpoints: the
// schedule with current availability and the introductory text.
type PublicHandler struct {
	ReservationRepo *repository.ReservationRepo
	SettingRepo     *repository.SettingRepo
}

// NewPublicHandler constructs a PublicHandler. All dependencies must be non-nil.
func NewPublicHandler(reservationRepo *repository.ReservationRepo, settingRepo *repository.SettingRepo) *PublicHandler {
	if reservationRepo == nil || settingRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{ReservationRepo: reservationRepo, SettingRepo: settingRepo}
}

// GetSchedule handles GET /v1/schedule. It returns every session in
// display order with its taken and free seat counts. Sessions with no
// free seats are included; hiding them is the front-end's choice.
func (h *PublicHandler) GetSchedule(c echo.Context) error {
	items, err := h.ReservationRepo.ListAvailability(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetIntro handles GET /v1/intro. It returns the introductory message
// an administrator configured, or an empty string when none is set.
func (h *PublicHandler) GetIntro(c echo.Context) error {
	text, err := h.SettingRepo.GetIntro(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load intro"})
	}
	return c.JSON(http.StatusOK, echo.Map{"intro": text})
}
