package repository

import (
	"context"
	"errors"
	"testing"
)

func TestReserveEnforcesCapacity(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Small class", 2)

	if _, err := reservations.Reserve(ctx, 10, id, 2); err != nil {
		t.Fatalf("fill session: %v", err)
	}
	if _, err := reservations.Reserve(ctx, 11, id, 1); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("overbook: want ErrCapacityExceeded, got %v", err)
	}
	// The failed attempt must leave no trace.
	if total, err := reservations.TotalSeats(ctx, id); err != nil || total != 2 {
		t.Fatalf("ledger changed by rejected reserve: total=%d err=%v", total, err)
	}
	if _, err := reservations.ListByUser(ctx, 11); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestReserveAccumulatesOnOneRow(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Ashtanga", 10)

	count, err := reservations.Reserve(ctx, 5, id, 1)
	if err != nil || count != 1 {
		t.Fatalf("first reserve: count=%d err=%v", count, err)
	}
	count, err = reservations.Reserve(ctx, 5, id, 3)
	if err != nil || count != 4 {
		t.Fatalf("second reserve: count=%d err=%v", count, err)
	}

	all, err := reservations.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single ledger row, got %d", len(all))
	}
	if all[0].UserID != 5 || all[0].SeatCount != 4 {
		t.Fatalf("unexpected row: %+v", all[0])
	}
}

func TestReserveValidatesInput(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Basics", 5)

	if _, err := reservations.Reserve(ctx, 1, id, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero seats: want ErrValidation, got %v", err)
	}
	if _, err := reservations.Reserve(ctx, 1, id, -2); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative seats: want ErrValidation, got %v", err)
	}
	if _, err := reservations.Reserve(ctx, 1, 99, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown session: want ErrSessionNotFound, got %v", err)
	}
}

func TestReleaseDecrementsThenDeletes(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Power", 10)
	if _, err := reservations.Reserve(ctx, 8, id, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	count, err := reservations.Release(ctx, 8, id, false)
	if err != nil || count != 2 {
		t.Fatalf("first release: count=%d err=%v", count, err)
	}
	count, err = reservations.Release(ctx, 8, id, false)
	if err != nil || count != 1 {
		t.Fatalf("second release: count=%d err=%v", count, err)
	}
	count, err = reservations.Release(ctx, 8, id, false)
	if err != nil || count != 0 {
		t.Fatalf("final release: count=%d err=%v", count, err)
	}
	// Row is gone now, not sitting at zero.
	if _, err := reservations.Release(ctx, 8, id, false); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("release after empty: want ErrReservationNotFound, got %v", err)
	}
}

func TestReleaseAllRemovesRow(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Restorative", 10)
	if _, err := reservations.Reserve(ctx, 4, id, 5); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	count, err := reservations.Release(ctx, 4, id, true)
	if err != nil || count != 0 {
		t.Fatalf("release all: count=%d err=%v", count, err)
	}
	if total, err := reservations.TotalSeats(ctx, id); err != nil || total != 0 {
		t.Fatalf("seats remain after release all: total=%d err=%v", total, err)
	}
}

func TestReleaseUnknownReservation(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Nidra", 10)
	if _, err := reservations.Release(ctx, 1, id, false); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("want ErrReservationNotFound, got %v", err)
	}
}

func TestListAvailability(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	a := mustCreate(t, sessions, "A", 4)
	b := mustCreate(t, sessions, "B", 3)
	if _, err := reservations.Reserve(ctx, 1, a, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := reservations.Reserve(ctx, 2, a, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := reservations.Reserve(ctx, 1, b, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	list, err := reservations.ListAvailability(ctx)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Session.ID != a || list[0].SeatsTaken != 3 || list[0].SeatsFree != 1 {
		t.Fatalf("session A availability wrong: %+v", list[0])
	}
	// A full session stays in the listing with zero free seats.
	if list[1].Session.ID != b || list[1].SeatsTaken != 3 || list[1].SeatsFree != 0 {
		t.Fatalf("session B availability wrong: %+v", list[1])
	}
}

func TestListByUserOrderedBySchedule(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	a := mustCreate(t, sessions, "First", 5)
	b := mustCreate(t, sessions, "Second", 5)
	c := mustCreate(t, sessions, "Third", 5)
	// Book out of schedule order.
	for _, id := range []uint64{c, a} {
		if _, err := reservations.Reserve(ctx, 6, id, 1); err != nil {
			t.Fatalf("reserve %d: %v", id, err)
		}
	}
	if _, err := reservations.Reserve(ctx, 7, b, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	mine, err := reservations.ListByUser(ctx, 6)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].Session.ID != a || mine[1].Session.ID != c {
		t.Fatalf("expected sessions [%d %d], got %+v", a, c, mine)
	}
}

func TestAllUserIDsAndTotals(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	a := mustCreate(t, sessions, "A", 10)
	b := mustCreate(t, sessions, "B", 10)
	if _, err := reservations.Reserve(ctx, 5, a, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := reservations.Reserve(ctx, 5, b, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := reservations.Reserve(ctx, 2, b, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	users, err := reservations.AllUserIDs(ctx)
	if err != nil {
		t.Fatalf("user ids: %v", err)
	}
	if len(users) != 2 || users[0] != 2 || users[1] != 5 {
		t.Fatalf("expected [2 5], got %v", users)
	}

	rows, seats, err := reservations.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if rows != 3 || seats != 6 {
		t.Fatalf("totals: want 3 rows / 6 seats, got %d / %d", rows, seats)
	}
}
