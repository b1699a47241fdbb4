package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account resolved from the external identity provider.
type User struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
	// Email is the login identity and is shown to other chat participants.
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// AuthUsername is the subject identifier assigned by the identity provider.
	AuthUsername    string    `gorm:"uniqueIndex;not null" json:"-"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID primary key when one is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
