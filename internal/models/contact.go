package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Contact is an address-book entry owned by one user. A chat room may link
// to a contact instead of (or before) a second registered user.
type Contact struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            *string        `json:"name,omitempty"`
	Email           string         `gorm:"not null;index" json:"email"`
	PhoneNumber     *string        `json:"phone_number,omitempty"`
	ProfileImageURL *string        `json:"profile_image_url,omitempty"`
	Tags            pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
