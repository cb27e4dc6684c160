package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/queue"
	"github.com/mkravets/class-booking/internal/repository"
	queue_publisher "github.com/mkravets/class-booking/internal/service"
)

// AdminHandler serves the management endpoints: session CRUD, schedule
// reordering, the reservation overview, broadcasts, and the intro text.
// Routes are guarded by the admin middleware, so every caller here has
// already been authenticated and matched against the admin allow-list.
//
// Mutations that affect other users publish a NotificationEvent after
// the database change commits. Publishing is best effort: a broker
// outage must not undo a deletion that already happened.
type AdminHandler struct {
	SessionRepo     *repository.SessionRepo
	ReservationRepo *repository.ReservationRepo
	SettingRepo     *repository.SettingRepo
	Reindexer       *repository.ScheduleReindexer
}

// NewAdminHandler constructs an AdminHandler. All dependencies must be non-nil.
func NewAdminHandler(
	sessionRepo *repository.SessionRepo,
	reservationRepo *repository.ReservationRepo,
	settingRepo *repository.SettingRepo,
	reindexer *repository.ScheduleReindexer,
) *AdminHandler {
	if sessionRepo == nil || reservationRepo == nil || settingRepo == nil || reindexer == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		SessionRepo:     sessionRepo,
		ReservationRepo: reservationRepo,
		SettingRepo:     settingRepo,
		Reindexer:       reindexer,
	}
}

// CreateSession handles POST /v1/admin/sessions with body
// {"name": ..., "capacity": ...}. The new session is appended at the
// end of the schedule and returned with its assigned id.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := h.SessionRepo.Create(c.Request().Context(), body.Name, body.Capacity)
	if err != nil {
		if errors.Is(err, repository.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be non-empty and capacity positive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	return c.JSON(http.StatusCreated, s)
}

// DeleteSession handles DELETE /v1/admin/sessions/:id. The session's
// reservations are removed with it, and everyone who held one is
// notified that the class was cancelled.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()
	s, err := h.SessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete session"})
	}
	users, err := h.SessionRepo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete session"})
	}
	if len(users) > 0 {
		_ = queue_publisher.PublishNotification(ctx, queue.NotificationEvent{
			Kind:      queue.KindSessionCancelled,
			SessionID: id,
			Text:      "Class cancelled: " + s.Name,
			UserIDs:   users,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"deleted":        id,
		"affected_users": users,
	})
}

// ClearSessions handles DELETE /v1/admin/sessions. The whole schedule
// and ledger are wiped; clearing an empty schedule succeeds and does
// nothing. Users who held any reservation are notified.
func (h *AdminHandler) ClearSessions(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.SessionRepo.Clear(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear schedule"})
	}
	if len(users) > 0 {
		_ = queue_publisher.PublishNotification(ctx, queue.NotificationEvent{
			Kind:      queue.KindScheduleCleared,
			Text:      "The schedule was cleared; all reservations are cancelled.",
			UserIDs:   users,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"affected_users": users})
}

// MoveSession handles POST /v1/admin/sessions/:id/move with body
// {"position": n}, positions counted from 1. Out-of-range positions
// clamp rather than fail: below 1 lands the session first, past the
// end lands it last. "moved" is false when the session id is unknown
// or the schedule is empty; the schedule is unchanged then.
func (h *AdminHandler) MoveSession(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var body struct {
		Position int `json:"position"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	moved, err := h.Reindexer.MoveSession(c.Request().Context(), id, body.Position)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reorder schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"moved": moved})
}

// ListReservations handles GET /v1/admin/reservations: every ledger
// row with its session, grouped by session in schedule order, plus the
// grand total of seats taken.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.ReservationRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	_, seats, err := h.ReservationRepo.Totals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":       items,
		"total_seats": seats,
	})
}

// Broadcast handles POST /v1/admin/broadcast with body {"text": ...}.
// The message goes to every user currently holding a reservation.
// Delivery is asynchronous; the response reports the recipient count,
// not delivery results.
func (h *AdminHandler) Broadcast(c echo.Context) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text must be non-empty"})
	}
	ctx := c.Request().Context()
	users, err := h.ReservationRepo.AllUserIDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve recipients"})
	}
	if len(users) > 0 {
		_ = queue_publisher.PublishNotification(ctx, queue.NotificationEvent{
			Kind:      queue.KindBroadcast,
			Text:      body.Text,
			UserIDs:   users,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"recipients": len(users)})
}

// SetIntro handles PUT /v1/admin/intro with body {"intro": ...}. An
// empty string clears the text.
func (h *AdminHandler) SetIntro(c echo.Context) error {
	var body struct {
		Intro string `json:"intro"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.SettingRepo.SetIntro(c.Request().Context(), body.Intro); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store intro"})
	}
	return c.JSON(http.StatusOK, echo.Map{"intro": body.Intro})
}
