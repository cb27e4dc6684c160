package repository

import (
	"context"
	"errors"
	"testing"
)

func TestSessionCreateAssignsSequentialIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)

	a := mustCreate(t, repo, "Morning flow", 10)
	b := mustCreate(t, repo, "Evening stretch", 8)
	if a != 1 || b != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a, b)
	}

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("unexpected listing: %+v", list)
	}
	if list[0].Name != "Morning flow" || list[0].Capacity != 10 {
		t.Fatalf("first session mangled: %+v", list[0])
	}
}

func TestSessionCreateValidation(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, "   ", 5); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: want ErrValidation, got %v", err)
	}
	if _, err := repo.Create(ctx, "Pilates", 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero capacity: want ErrValidation, got %v", err)
	}
	if _, err := repo.Create(ctx, "Pilates", -3); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative capacity: want ErrValidation, got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected creates must not persist, got %+v", list)
	}
}

func TestSessionCreateTrimsName(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)

	s, err := repo.Create(context.Background(), "  Hatha  ", 6)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Name != "Hatha" {
		t.Fatalf("name not trimmed: %q", s.Name)
	}
}

func TestSessionGetByIDNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)

	if _, err := repo.GetByID(context.Background(), 42); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionDeleteCascadesAndReportsUsers(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	id := mustCreate(t, sessions, "Vinyasa", 10)
	other := mustCreate(t, sessions, "Yin", 10)
	for _, uid := range []uint64{7, 3, 9} {
		if _, err := reservations.Reserve(ctx, uid, id, 1); err != nil {
			t.Fatalf("reserve user %d: %v", uid, err)
		}
	}
	if _, err := reservations.Reserve(ctx, 3, other, 2); err != nil {
		t.Fatalf("reserve on other: %v", err)
	}

	users, err := sessions.DeleteByID(ctx, id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []uint64{3, 7, 9}
	if len(users) != len(want) {
		t.Fatalf("affected users: want %v, got %v", want, users)
	}
	for i := range want {
		if users[i] != want[i] {
			t.Fatalf("affected users: want %v, got %v", want, users)
		}
	}

	if total, err := reservations.TotalSeats(ctx, id); err != nil || total != 0 {
		t.Fatalf("ledger rows survived cascade: total=%d err=%v", total, err)
	}
	// The untouched session keeps its reservation.
	if total, err := reservations.TotalSeats(ctx, other); err != nil || total != 2 {
		t.Fatalf("unrelated reservation lost: total=%d err=%v", total, err)
	}
}

func TestSessionDeleteUnknownID(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)

	if _, err := sessions.DeleteByID(context.Background(), 99); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionClear(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	a := mustCreate(t, sessions, "A", 5)
	b := mustCreate(t, sessions, "B", 5)
	if _, err := reservations.Reserve(ctx, 1, a, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := reservations.Reserve(ctx, 2, b, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	users, err := sessions.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(users) != 2 || users[0] != 1 || users[1] != 2 {
		t.Fatalf("affected users: %v", users)
	}

	list, err := sessions.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("schedule not empty after clear: %v %v", list, err)
	}

	// Clearing an empty schedule is a no-op.
	users, err = sessions.Clear(ctx)
	if err != nil {
		t.Fatalf("clear empty: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("clear of empty schedule reported users: %v", users)
	}

	// Ids restart from 1 on a fresh schedule.
	if id := mustCreate(t, sessions, "C", 5); id != 1 {
		t.Fatalf("expected id 1 after clear, got %d", id)
	}
}
