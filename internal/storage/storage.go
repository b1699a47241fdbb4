package storage

import (
	"errors"

	"penpost/backend/internal/models"

	"gorm.io/gorm"
)

// Storage is the persistence boundary consumed by the chat service and the
// live-connection layer. Lookups return (nil, nil) when the row is absent;
// callers decide whether absence is an error.
type Storage interface {
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	SaveUser(user *models.User) error
	EnsureUser(authUsername, email string) (*models.User, error)

	GetContactForUser(userID, contactID string) (*models.Contact, error)

	CreateRoomWithParticipants(room *models.ChatRoom, userIDs []string) error
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	ListRoomIDsForUser(userID string) ([]string, error)
	ListRoomsForUser(userID, chatType string, page, limit int) ([]models.ChatRoom, int64, error)
	LastMessageInRoom(roomID string) (*models.ChatMessage, error)

	GetParticipant(roomID, userID string) (*models.ChatParticipant, error)
	ListParticipants(roomID string) ([]models.ChatParticipant, error)
	ListOtherParticipantSummaries(roomID, excludeUserID string) ([]ParticipantSummary, error)
	MarkRead(roomID, userID string) error

	GetMessageByID(messageID string) (*models.ChatMessage, error)
	ListMessages(roomID string, page, limit int, beforeID string) ([]models.ChatMessage, int64, error)
	CreateMessage(msg *models.ChatMessage) error
}

// ParticipantSummary is the joined (participant, user) view exposed on room
// responses.
type ParticipantSummary struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Service is the GORM-backed Storage implementation.
type Service struct {
	DB *gorm.DB
}

// NewStorageService wraps an open database handle.
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// EnsureUser finds the account for an identity-provider subject, creating it
// on first contact.
func (s *Service) EnsureUser(authUsername, email string) (*models.User, error) {
	var user models.User
	defaults := models.User{AuthUsername: authUsername, Email: email, IsActive: true}
	err := s.DB.Where("auth_username = ?", authUsername).FirstOrCreate(&user, defaults).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetContactForUser scopes the lookup to the owning user so one user can
// never read another user's address book.
func (s *Service) GetContactForUser(userID, contactID string) (*models.Contact, error) {
	var contact models.Contact
	err := s.DB.Where("user_id = ? AND id = ?", userID, contactID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}
