package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatParticipant joins one user to one room and carries the per-user room
// state. At most one row may exist per (room, user) pair.
type ChatParticipant struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID string `gorm:"type:uuid;not null;uniqueIndex:uq_chat_participants_room_user" json:"room_id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:uq_chat_participants_room_user" json:"user_id"`
	// UnreadCount is bumped for every participant except the author on each
	// new message and reset to zero when the participant reads the room.
	UnreadCount          int       `gorm:"not null;default:0" json:"unread_count"`
	NotificationsEnabled bool      `gorm:"not null;default:true" json:"notifications_enabled"`
	JoinedAt             time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (p *ChatParticipant) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
