package storage

import (
	"errors"

	"penpost/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) GetMessageByID(messageID string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.Where("id = ?", messageID).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages pages through a room's messages, newest first. When beforeID
// names a message in the same room it acts as a cursor ("strictly older
// than"). Any before_id request reads from the cursor position: the page
// offset is dropped even when the cursor is unknown or from another room.
func (s *Service) ListMessages(roomID string, page, limit int, beforeID string) ([]models.ChatMessage, int64, error) {
	base := s.DB.Model(&models.ChatMessage{}).Where("room_id = ?", roomID)

	if beforeID != "" {
		cursor, err := s.GetMessageByID(beforeID)
		if err != nil {
			return nil, 0, err
		}
		if cursor != nil && cursor.RoomID == roomID {
			base = base.Where("created_at < ?", cursor.CreatedAt)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []models.ChatMessage
	err := base.
		Order("created_at DESC").
		Offset(pageOffset(page, limit, beforeID)).
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// pageOffset computes the rows to skip for a message page. Cursor requests
// always start at the cursor position, so before_id suppresses the offset
// regardless of whether the cursor resolves.
func pageOffset(page, limit int, beforeID string) int {
	if beforeID != "" {
		return 0
	}
	return (page - 1) * limit
}

// CreateMessage persists a message and its room/participant bookkeeping as
// one transaction: the message row, the room's last_message_at, and an
// unread_count bump for every participant except the author. A failure rolls
// the whole unit back.
func (s *Service) CreateMessage(msg *models.ChatMessage) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ChatRoom{}).
			Where("id = ?", msg.RoomID).
			UpdateColumn("last_message_at", msg.CreatedAt).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatParticipant{}).
			Where("room_id = ? AND user_id <> ?", msg.RoomID, msg.UserID).
			UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).Error
	})
}
