package chat

import (
	"time"

	"penpost/backend/internal/models"
	"penpost/backend/internal/storage"
)

// LastMessagePreview is the truncated newest-message snippet on a room list
// item.
type LastMessagePreview struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkedContact is the contact detail attached to a contact-linked room.
type LinkedContact struct {
	ID              string  `json:"id"`
	Name            *string `json:"name"`
	Email           string  `json:"email"`
	PhoneNumber     *string `json:"phone_number"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// RoomView is a room as seen by one participant: the shared room fields plus
// that participant's unread count and the surrounding detail.
type RoomView struct {
	ID                string                       `json:"id"`
	ChatType          string                       `json:"chat_type"`
	ContactID         *string                      `json:"contact_id"`
	Topic             *string                      `json:"topic"`
	LastMessageAt     *time.Time                   `json:"last_message_at"`
	CreatedAt         time.Time                    `json:"created_at"`
	UnreadCount       int                          `json:"unread_count"`
	LastMessage       *LastMessagePreview          `json:"last_message_preview"`
	OtherParticipants []storage.ParticipantSummary `json:"other_participants"`
	LinkedContact     *LinkedContact               `json:"linked_contact"`
}

// RoomPage is one page of the caller's rooms.
type RoomPage struct {
	Items      []RoomView `json:"items"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int64      `json:"total_pages"`
}

// MessagePage is one page of a room's messages, newest first.
type MessagePage struct {
	Items      []models.MessagePayload `json:"items"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	Total      int64                   `json:"total"`
	TotalPages int64                   `json:"total_pages"`
}

// previewLimit is the maximum preview length in runes; longer content is cut
// and marked with an ellipsis.
const previewLimit = 200

func buildPreview(msg *models.ChatMessage) *LastMessagePreview {
	if msg == nil {
		return nil
	}
	content := msg.Content
	if runes := []rune(content); len(runes) > previewLimit {
		content = string(runes[:previewLimit]) + "..."
	}
	return &LastMessagePreview{
		ID:        msg.ID,
		Content:   content,
		UserID:    msg.UserID,
		CreatedAt: msg.CreatedAt,
	}
}
