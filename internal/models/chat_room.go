package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatTypeDirect is the only room discriminator in use today; the column is
// a plain string so new kinds can be added without a migration.
const ChatTypeDirect = "direct"

// ChatRoom is one conversation. It owns its participants and messages; both
// are removed by the database cascade when the room goes away.
type ChatRoom struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ChatType string `gorm:"not null;default:direct" json:"chat_type"`
	// ContactID links the room to an address-book contact, for conversations
	// started from a contact that has no registered account yet.
	ContactID *string `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	Topic     *string `json:"topic,omitempty"`
	// LastMessageAt is nil until the first message and drives room ordering.
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
