// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chat messages
// posted into named rooms.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// CreateChatMessage inserts a message into a room with sender snapshots.
func CreateChatMessage(ctx context.Context, db *gorm.DB, room, senderID, senderName, senderRole, body string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:         uuid.NewString(),
		Room:       room,
		SenderID:   senderID,
		SenderName: senderName,
		SenderRole: senderRole,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListRoomMessagesPage returns a page of a room's messages, newest first.
func ListRoomMessagesPage(ctx context.Context, db *gorm.DB, room string, offset, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("room = ?", room).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountRoomMessages returns the total messages in a room.
func CountRoomMessages(ctx context.Context, db *gorm.DB, room string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("room = ?", room).
		Count(&total).Error
	return total, err
}
