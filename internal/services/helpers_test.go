package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type recordedEvent struct {
	room  string
	event string
	data  any
}

// recorderHub captures broadcasts for assertions.
type recorderHub struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorderHub) Broadcast(room, event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{room: room, event: event, data: data})
}

func (r *recorderHub) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (r *recorderHub) rooms(event string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.event == event {
			out = append(out, e.room)
		}
	}
	return out
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, "Test User", email, "", "x", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price int64, available bool) *domain.MenuItem {
	t.Helper()
	cat, err := repo.CreateCategory(context.Background(), db, "Cat "+uuid.NewString()[:8], 0)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	item := &domain.MenuItem{CategoryID: cat.ID, Name: name, Price: price, Available: available}
	if _, err := repo.CreateMenuItem(context.Background(), db, item); err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	return item
}

func openDay(t *testing.T, db *gorm.DB, day string) *domain.DaySession {
	t.Helper()
	s, err := repo.CreateDaySession(context.Background(), db, day, "admin-1")
	if err != nil {
		t.Fatalf("open day: %v", err)
	}
	return s
}

// fixedNow pins a service clock to a known instant.
func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}
