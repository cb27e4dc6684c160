package model

// Reservation records one user's claim on seats in one session.  At
// most one row exists per (user, session) pair; repeated bookings by
// the same user increment SeatCount on the existing row instead of
// creating new ones.  A row whose count would drop to zero is deleted
// rather than kept around.
//
// Fields:
//  UserID    – external identity of the reserving user (chat user id).
//  SessionID – session being booked; always resolves to a live session.
//  SeatCount – number of seats claimed, >= 1.
type Reservation struct {
	UserID    uint64 `json:"user_id"`    // reservations.user_id
	SessionID uint64 `json:"session_id"` // reservations.session_id
	SeatCount int    `json:"seat_count"` // reservations.seat_count
}
