package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/repository"
)

// BookingHandler serves the authenticated per-user booking operations.
// Identity comes from the JWT middleware; the handlers never trust a
// user id from the request body. Capacity enforcement lives in the
// repository layer, inside the same transaction as the write, so these
// handlers only translate inputs and map sentinel errors to statuses.
type BookingHandler struct {
	ReservationRepo *repository.ReservationRepo
}

// NewBookingHandler constructs a BookingHandler. The repository must be non-nil.
func NewBookingHandler(reservationRepo *repository.ReservationRepo) *BookingHandler {
	if reservationRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{ReservationRepo: reservationRepo}
}

// Reserve handles POST /v1/sessions/:id/reservations. The body may
// carry {"seats": n}; omitted or zero means one seat. On success it
// returns 201 with the caller's new total seat count for the session.
// A full session yields 409 with no state change.
func (h *BookingHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var body struct {
		Seats int `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Seats == 0 {
		body.Seats = 1
	}
	count, err := h.ReservationRepo.Reserve(c.Request().Context(), userID, sessionID, body.Seats)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be at least 1"})
		case errors.Is(err, repository.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, repository.ErrCapacityExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no free seats"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": sessionID,
		"seat_count": count,
	})
}

// Release handles DELETE /v1/sessions/:id/reservations. By default one
// seat is given back; ?all=true removes the whole reservation. Returns
// the caller's remaining seat count, 0 when the reservation is gone.
func (h *BookingHandler) Release(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	releaseAll := c.QueryParam("all") == "true"
	count, err := h.ReservationRepo.Release(c.Request().Context(), userID, sessionID, releaseAll)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": sessionID,
		"seat_count": count,
	})
}

// MyReservations handles GET /v1/my-reservations. It returns the
// caller's bookings in schedule order; an empty array means none.
func (h *BookingHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
