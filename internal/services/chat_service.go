// Package services – ChatService
//
// Staff coordination chat. Messages are posted over REST into a named room,
// persisted for history, and fanned out live over the WebSocket hub. Room
// access follows the same rules as socket membership: kitchen staff post to
// the kitchen room, POS to pos, admins anywhere, customers to their own
// private room only.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

// ChatService persists room messages and fans them out.
type ChatService struct {
	DB  *gorm.DB
	Hub Broadcaster

	// MaxBodyRunes caps message length. Zero means the default of 1000.
	MaxBodyRunes int
}

// NewChatService constructs a ChatService.
func NewChatService(db *gorm.DB, hub Broadcaster) *ChatService {
	return &ChatService{DB: db, Hub: orDiscard(hub), MaxBodyRunes: 1000}
}

// CanAccessRoom reports whether a role/user pair may read or post to a room.
func CanAccessRoom(room, role, userID string) bool {
	for _, allowed := range ws.RoomsForRole(role, userID) {
		if allowed == room {
			return true
		}
	}
	return false
}

// Post validates and stores a message, then broadcasts it to the room.
func (s *ChatService) Post(ctx context.Context, room string, sender *domain.User, body string) (*domain.ChatMessage, error) {
	if !CanAccessRoom(room, sender.Role, sender.ID) {
		return nil, ErrRoomForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	max := s.MaxBodyRunes
	if max <= 0 {
		max = 1000
	}
	if utf8.RuneCountInString(body) > max {
		return nil, ErrMessageTooLong
	}

	msg, err := repo.CreateChatMessage(ctx, s.DB, room, sender.ID, sender.Name, sender.Role, body)
	if err != nil {
		return nil, err
	}
	s.Hub.Broadcast(room, ws.EventChatMessage, msg)
	return msg, nil
}

// History returns a page of room messages, newest first, with the total.
func (s *ChatService) History(ctx context.Context, room, role, userID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if !CanAccessRoom(room, role, userID) {
		return nil, 0, ErrRoomForbidden
	}
	offset := (page - 1) * pageSize
	msgs, err := repo.ListRoomMessagesPage(ctx, s.DB, room, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountRoomMessages(ctx, s.DB, room)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}
