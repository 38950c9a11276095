// Package services – SessionService
//
// Day sessions gate order intake: one row per calendar day, opened before
// service starts and closed at the end of the night. Closing broadcasts to
// every staff room so POS terminals stop taking orders immediately.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

// SessionService manages the business-day lifecycle.
type SessionService struct {
	DB  *gorm.DB
	Hub Broadcaster

	now func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(db *gorm.DB, hub Broadcaster) *SessionService {
	return &SessionService{DB: db, Hub: orDiscard(hub), now: time.Now}
}

// today returns the current UTC calendar day as YYYY-MM-DD.
func (s *SessionService) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// Open starts today's session. Reopening a closed day resumes it; a day
// that is already open returns ErrSessionExists.
func (s *SessionService) Open(ctx context.Context, actorID string) (*domain.DaySession, error) {
	day := s.today()
	session, err := repo.GetDaySession(ctx, s.DB, day)
	switch {
	case err == nil && session.Open:
		return nil, ErrSessionExists
	case err == nil:
		if rerr := repo.ReopenDaySession(ctx, s.DB, day, actorID); rerr != nil {
			return nil, rerr
		}
	case errors.Is(err, repo.ErrNotFound):
		if _, cerr := repo.CreateDaySession(ctx, s.DB, day, actorID); cerr != nil {
			return nil, cerr
		}
	default:
		return nil, err
	}

	_ = repo.AppendAudit(ctx, s.DB, actorID, "day.open", "day_session", day, "")
	return repo.GetDaySession(ctx, s.DB, day)
}

// Close ends today's session and notifies every staff room.
func (s *SessionService) Close(ctx context.Context, actorID string) (*domain.DaySession, error) {
	day := s.today()
	if err := repo.CloseDaySession(ctx, s.DB, day, actorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	session, err := repo.GetDaySession(ctx, s.DB, day)
	if err != nil {
		return nil, err
	}

	_ = repo.AppendAudit(ctx, s.DB, actorID, "day.close", "day_session", day, "")
	s.Hub.Broadcast(ws.RoomPOS, ws.EventDayClosed, session)
	s.Hub.Broadcast(ws.RoomKitchen, ws.EventDayClosed, session)
	s.Hub.Broadcast(ws.RoomAdmin, ws.EventDayClosed, session)
	return session, nil
}

// Current returns today's session, open or closed.
func (s *SessionService) Current(ctx context.Context) (*domain.DaySession, error) {
	session, err := repo.GetDaySession(ctx, s.DB, s.today())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
