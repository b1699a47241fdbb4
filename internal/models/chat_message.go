package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one message in a room. CreatedAt is assigned by the insert
// transaction and is the sole ordering key within a room.
type ChatMessage struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID  string `gorm:"type:uuid;not null;index" json:"room_id"`
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Content string `gorm:"type:text;not null" json:"content"`
	// QuoteID is a weak reference to another message in the same room. The
	// column is SET NULL on delete, so a dangling quote is tolerated.
	QuoteID   *string   `gorm:"type:uuid;index" json:"quote_id,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
