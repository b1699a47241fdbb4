package chat_test

import (
	"sync"

	"penpost/backend/internal/models"
	"penpost/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) EnsureUser(authUsername, email string) (*models.User, error) {
	args := m.Called(authUsername, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetContactForUser(userID, contactID string) (*models.Contact, error) {
	args := m.Called(userID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockStorage) CreateRoomWithParticipants(room *models.ChatRoom, userIDs []string) error {
	args := m.Called(room, userIDs)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) ListRoomIDsForUser(userID string) ([]string, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) ListRoomsForUser(userID, chatType string, page, limit int) ([]models.ChatRoom, int64, error) {
	args := m.Called(userID, chatType, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ChatRoom), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) LastMessageInRoom(roomID string) (*models.ChatMessage, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStorage) GetParticipant(roomID, userID string) (*models.ChatParticipant, error) {
	args := m.Called(roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatParticipant), args.Error(1)
}

func (m *MockStorage) ListParticipants(roomID string) ([]models.ChatParticipant, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatParticipant), args.Error(1)
}

func (m *MockStorage) ListOtherParticipantSummaries(roomID, excludeUserID string) ([]storage.ParticipantSummary, error) {
	args := m.Called(roomID, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ParticipantSummary), args.Error(1)
}

func (m *MockStorage) MarkRead(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(messageID string) (*models.ChatMessage, error) {
	args := m.Called(messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStorage) ListMessages(roomID string, page, limit int, beforeID string) ([]models.ChatMessage, int64, error) {
	args := m.Called(roomID, page, limit, beforeID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ChatMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CreateMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

// recordedBroadcast captures one BroadcastAsync call.
type recordedBroadcast struct {
	RoomID  string
	Event   string
	Payload any
}

// fakeBroadcaster records broadcasts instead of delivering them.
type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []recordedBroadcast
}

func (b *fakeBroadcaster) BroadcastAsync(roomID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, recordedBroadcast{RoomID: roomID, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) Calls() []recordedBroadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedBroadcast(nil), b.calls...)
}
