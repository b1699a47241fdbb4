// Package chat implements the room and message operations behind the REST
// surface: create-or-get rooms, paginated listing with unread bookkeeping,
// and the transactional message ingestion path that feeds live fan-out.
package chat

import (
	"strings"
	"unicode/utf8"

	"penpost/backend/internal/models"
	"penpost/backend/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRoomLimit    = 20
	defaultMessageLimit = 50
	maxPageLimit        = 100
	maxContentLength    = 10000
)

// Broadcaster is the slice of the room registry the service needs: schedule
// a fan-out after commit without waiting on delivery.
type Broadcaster interface {
	BroadcastAsync(roomID, event string, payload any)
}

// Service wires persistence and live fan-out together.
type Service struct {
	store     storage.Storage
	broadcast Broadcaster
	log       *zap.Logger
}

func NewService(store storage.Storage, broadcast Broadcaster, log *zap.Logger) *Service {
	return &Service{store: store, broadcast: broadcast, log: log}
}

// RoomRequest is the body of create-or-get: exactly one of the two fields
// selects the counterpart.
type RoomRequest struct {
	OtherUserID string `json:"other_user_id"`
	ContactID   string `json:"contact_id"`
}

// CreateMessage validates and persists a message, then schedules the
// message_created broadcast. The insert, the room's last_message_at, and the
// unread increments commit or roll back together; on rollback the caller
// gets an Unavailable error and nothing was applied.
func (s *Service) CreateMessage(roomID, userID, content string, quoteID *string) (*models.ChatMessage, error) {
	if !validUUID(roomID) {
		return nil, Validation("INVALID_ROOM_ID", "room_id must be a valid UUID.")
	}
	part, err := s.store.GetParticipant(roomID, userID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, NotFound("Room")
	}
	room, err := s.store.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFound("Room")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Validation("EMPTY_CONTENT", "Message content cannot be empty or whitespace only.")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, Validation("CONTENT_TOO_LONG", "Message content exceeds the 10000 character limit.")
	}

	if quoteID != nil && *quoteID != "" {
		if !validUUID(*quoteID) {
			return nil, Validation("INVALID_QUOTE", "Quoted message must exist and belong to this room.")
		}
		quoted, err := s.store.GetMessageByID(*quoteID)
		if err != nil {
			return nil, err
		}
		if quoted == nil || quoted.RoomID != roomID {
			return nil, Validation("INVALID_QUOTE", "Quoted message must exist and belong to this room.")
		}
	} else {
		quoteID = nil
	}

	msg := &models.ChatMessage{RoomID: roomID, UserID: userID, Content: content, QuoteID: quoteID}
	if err := s.store.CreateMessage(msg); err != nil {
		s.log.Error("message transaction failed",
			zap.String("room_id", roomID), zap.String("user_id", userID), zap.Error(err))
		return nil, Unavailable("Failed to save message. Please try again.")
	}

	// Fan-out happens only after commit, and includes the author's other
	// open connections. Only typing events exclude the sender.
	s.broadcast.BroadcastAsync(roomID, models.EventMessageCreated, models.NewMessagePayload(msg))
	return msg, nil
}

// ListMessages pages through a room's messages for one participant, newest
// first, and resets that participant's unread counter: viewing marks read.
func (s *Service) ListMessages(roomID, userID string, page, limit int, beforeID string) (*MessagePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultMessageLimit
	}
	if !validUUID(roomID) {
		return nil, Validation("INVALID_ROOM_ID", "room_id must be a valid UUID.")
	}
	if beforeID != "" && !validUUID(beforeID) {
		return nil, Validation("INVALID_BEFORE_ID", "before_id must be a valid UUID.")
	}
	part, err := s.store.GetParticipant(roomID, userID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, NotFound("Room")
	}
	if err := s.store.MarkRead(roomID, userID); err != nil {
		return nil, err
	}
	msgs, total, err := s.store.ListMessages(roomID, page, limit, beforeID)
	if err != nil {
		return nil, err
	}
	items := make([]models.MessagePayload, 0, len(msgs))
	for i := range msgs {
		items = append(items, models.NewMessagePayload(&msgs[i]))
	}
	return &MessagePage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// ListRooms pages through the caller's rooms ordered by recent activity.
func (s *Service) ListRooms(userID string, page, limit int, chatType string) (*RoomPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultRoomLimit
	}
	rooms, total, err := s.store.ListRoomsForUser(userID, chatType, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		view, err := s.buildRoomView(&rooms[i], userID)
		if err != nil {
			return nil, err
		}
		items = append(items, *view)
	}
	return &RoomPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetRoom returns one room for a participant. Non-participants get the same
// NotFound as a room that does not exist.
func (s *Service) GetRoom(roomID, userID string) (*RoomView, error) {
	if !validUUID(roomID) {
		return nil, Validation("INVALID_ROOM_ID", "room_id must be a valid UUID.")
	}
	part, err := s.store.GetParticipant(roomID, userID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, NotFound("Room")
	}
	room, err := s.store.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFound("Room")
	}
	return s.buildRoomView(room, userID)
}

// CreateOrGetRoom finds the caller's existing direct room with the given
// counterpart, or atomically creates the room plus its participant rows.
// Calling it twice for the same pair yields the same room.
func (s *Service) CreateOrGetRoom(userID string, req RoomRequest) (*RoomView, error) {
	switch {
	case req.OtherUserID != "":
		return s.roomWithUser(userID, req.OtherUserID)
	case req.ContactID != "":
		return s.roomWithContact(userID, req.ContactID)
	default:
		return nil, Validation("MISSING_PARAM", "Provide other_user_id or contact_id.")
	}
}

func (s *Service) roomWithUser(userID, otherID string) (*RoomView, error) {
	if otherID == userID {
		return nil, Validation("INVALID_OTHER_USER", "other_user_id cannot be yourself.")
	}
	if !validUUID(otherID) {
		return nil, Validation("INVALID_OTHER_USER", "other_user_id must be a valid UUID.")
	}
	other, err := s.store.GetUserByID(otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, NotFound("User")
	}

	roomIDs, err := s.store.ListRoomIDsForUser(userID)
	if err != nil {
		return nil, err
	}
	want := map[string]struct{}{userID: {}, otherID: {}}
	for _, rid := range roomIDs {
		room, err := s.store.GetRoomByID(rid)
		if err != nil {
			return nil, err
		}
		if room == nil || room.ChatType != models.ChatTypeDirect {
			continue
		}
		parts, err := s.store.ListParticipants(rid)
		if err != nil {
			return nil, err
		}
		if !sameParticipantSet(parts, want) {
			continue
		}
		return s.buildRoomView(room, userID)
	}

	room := &models.ChatRoom{ChatType: models.ChatTypeDirect}
	if err := s.store.CreateRoomWithParticipants(room, []string{userID, otherID}); err != nil {
		return nil, err
	}
	s.log.Info("direct room created",
		zap.String("room_id", room.ID), zap.String("user_id", userID), zap.String("other_user_id", otherID))
	return s.buildRoomView(room, userID)
}

func (s *Service) roomWithContact(userID, contactID string) (*RoomView, error) {
	if !validUUID(contactID) {
		return nil, Validation("INVALID_CONTACT_ID", "contact_id must be a valid UUID.")
	}
	contact, err := s.store.GetContactForUser(userID, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, NotFound("Contact")
	}

	roomIDs, err := s.store.ListRoomIDsForUser(userID)
	if err != nil {
		return nil, err
	}
	for _, rid := range roomIDs {
		room, err := s.store.GetRoomByID(rid)
		if err != nil {
			return nil, err
		}
		if room != nil && room.ContactID != nil && *room.ContactID == contactID {
			return s.buildRoomView(room, userID)
		}
	}

	room := &models.ChatRoom{ChatType: models.ChatTypeDirect, ContactID: &contactID}
	if err := s.store.CreateRoomWithParticipants(room, []string{userID}); err != nil {
		return nil, err
	}
	s.log.Info("contact room created",
		zap.String("room_id", room.ID), zap.String("contact_id", contactID))
	return s.buildRoomView(room, userID)
}

func (s *Service) buildRoomView(room *models.ChatRoom, userID string) (*RoomView, error) {
	part, err := s.store.GetParticipant(room.ID, userID)
	if err != nil {
		return nil, err
	}
	unread := 0
	if part != nil {
		unread = part.UnreadCount
	}
	last, err := s.store.LastMessageInRoom(room.ID)
	if err != nil {
		return nil, err
	}
	others, err := s.store.ListOtherParticipantSummaries(room.ID, userID)
	if err != nil {
		return nil, err
	}
	if others == nil {
		others = []storage.ParticipantSummary{}
	}
	var linked *LinkedContact
	if room.ContactID != nil {
		contact, err := s.store.GetContactForUser(userID, *room.ContactID)
		if err != nil {
			return nil, err
		}
		if contact != nil {
			linked = &LinkedContact{
				ID:              contact.ID,
				Name:            contact.Name,
				Email:           contact.Email,
				PhoneNumber:     contact.PhoneNumber,
				ProfileImageURL: contact.ProfileImageURL,
			}
		}
	}
	return &RoomView{
		ID:                room.ID,
		ChatType:          room.ChatType,
		ContactID:         room.ContactID,
		Topic:             room.Topic,
		LastMessageAt:     room.LastMessageAt,
		CreatedAt:         room.CreatedAt,
		UnreadCount:       unread,
		LastMessage:       buildPreview(last),
		OtherParticipants: others,
		LinkedContact:     linked,
	}, nil
}

func sameParticipantSet(parts []models.ChatParticipant, want map[string]struct{}) bool {
	if len(parts) != len(want) {
		return false
	}
	for _, p := range parts {
		if _, ok := want[p.UserID]; !ok {
			return false
		}
	}
	return true
}

// validUUID gates every client-supplied identifier before it reaches a uuid
// column; a malformed value would otherwise fail inside the driver.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func totalPages(total int64, limit int) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
