package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

func TestDaySessionLifecycle(t *testing.T) {
	db := newTestDB(t, &domain.DaySession{})
	ctx := context.Background()

	s, err := CreateDaySession(ctx, db, "2026-08-29", "admin-1")
	if err != nil {
		t.Fatalf("CreateDaySession: %v", err)
	}
	if !s.Open || s.Day != "2026-08-29" {
		t.Fatalf("unexpected session: %+v", s)
	}

	// One session per day.
	if _, err := CreateDaySession(ctx, db, "2026-08-29", "admin-2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for same day, got %v", err)
	}

	if err := CloseDaySession(ctx, db, "2026-08-29", "admin-1"); err != nil {
		t.Fatalf("CloseDaySession: %v", err)
	}
	got, err := GetDaySession(ctx, db, "2026-08-29")
	if err != nil || got.Open || got.ClosedBy == nil || *got.ClosedBy != "admin-1" || got.ClosedAt == nil {
		t.Fatalf("closed session: %+v err=%v", got, err)
	}

	// Closing twice reports not found (zero rows matched).
	if err := CloseDaySession(ctx, db, "2026-08-29", "admin-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double close: got %v", err)
	}

	if err := ReopenDaySession(ctx, db, "2026-08-29", "admin-2"); err != nil {
		t.Fatalf("ReopenDaySession: %v", err)
	}
	got, _ = GetDaySession(ctx, db, "2026-08-29")
	if !got.Open || got.ClosedBy != nil || got.ClosedAt != nil || got.OpenedBy != "admin-2" {
		t.Fatalf("reopened session: %+v", got)
	}

	if err := ReopenDaySession(ctx, db, "2026-08-29", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reopen of open session: got %v", err)
	}
}

func TestGetDaySession_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.DaySession{})
	if _, err := GetDaySession(context.Background(), db, "1999-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
