package storage

import (
	"errors"

	"penpost/backend/internal/models"

	"gorm.io/gorm"
)

// CreateRoomWithParticipants inserts the room and one participant row per
// user inside a single transaction, so a half-created room is never visible.
func (s *Service) CreateRoomWithParticipants(room *models.ChatRoom, userIDs []string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for _, uid := range userIDs {
			p := models.ChatParticipant{RoomID: room.ID, UserID: uid}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListRoomIDsForUser returns every room id the user participates in.
func (s *Service) ListRoomIDsForUser(userID string) ([]string, error) {
	var roomIDs []string
	err := s.DB.Model(&models.ChatParticipant{}).
		Where("user_id = ?", userID).
		Pluck("room_id", &roomIDs).Error
	if err != nil {
		return nil, err
	}
	return roomIDs, nil
}

// ListRoomsForUser pages through the user's rooms, most recently active
// first. Rooms that have no messages yet sort after all active rooms.
func (s *Service) ListRoomsForUser(userID, chatType string, page, limit int) ([]models.ChatRoom, int64, error) {
	base := s.DB.Model(&models.ChatRoom{}).
		Where("id IN (?)", s.DB.Model(&models.ChatParticipant{}).
			Select("room_id").
			Where("user_id = ?", userID))
	if chatType != "" {
		base = base.Where("chat_type = ?", chatType)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.ChatRoom
	err := base.
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// LastMessageInRoom returns the newest message, or nil for an empty room.
func (s *Service) LastMessageInRoom(roomID string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Service) GetParticipant(roomID, userID string) (*models.ChatParticipant, error) {
	var part models.ChatParticipant
	err := s.DB.Where("room_id = ? AND user_id = ?", roomID, userID).First(&part).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (s *Service) ListParticipants(roomID string) ([]models.ChatParticipant, error) {
	var parts []models.ChatParticipant
	err := s.DB.Where("room_id = ?", roomID).Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// ListOtherParticipantSummaries joins participants with users to produce the
// {user_id, email} pairs shown on room responses.
func (s *Service) ListOtherParticipantSummaries(roomID, excludeUserID string) ([]ParticipantSummary, error) {
	var out []ParticipantSummary
	err := s.DB.Model(&models.ChatParticipant{}).
		Select("chat_participants.user_id AS user_id, users.email AS email").
		Joins("JOIN users ON users.id = chat_participants.user_id").
		Where("chat_participants.room_id = ? AND chat_participants.user_id <> ?", roomID, excludeUserID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead resets the caller's unread counter for the room. Resetting a
// counter that is already zero is a no-op.
func (s *Service) MarkRead(roomID, userID string) error {
	return s.DB.Model(&models.ChatParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		UpdateColumn("unread_count", 0).Error
}
