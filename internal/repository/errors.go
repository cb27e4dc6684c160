// Package repository defines error values shared across the data access
// layer. These sentinels let handlers distinguish failure scenarios and
// translate them into user-facing responses: validation problems and
// missing records map to 400/404, a full session maps to 409, and a
// failed reorder maps to a generic 500 after the transaction has been
// rolled back.
package repository

import "errors"

// ErrValidation is returned when the caller supplies malformed input,
// such as an empty session name or a non-positive capacity or seat
// count. The wrapped message carries the specific field.
var ErrValidation = errors.New("validation failed")

// ErrSessionNotFound indicates that no session with the requested id
// exists. Handlers should translate this into an HTTP 404 response.
var ErrSessionNotFound = errors.New("session not found")

// ErrReservationNotFound indicates that the user holds no reservation
// for the requested session.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrCapacityExceeded is returned when a reserve call would push a
// session past its seat capacity. The store is left unchanged.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrReindexFailed is returned when a schedule reorder could not be
// completed. The transaction is rolled back in full, so the catalog
// and every reservation remain exactly as they were before the call.
var ErrReindexFailed = errors.New("reindex failed")
