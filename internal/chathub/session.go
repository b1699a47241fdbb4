package chathub

import (
	"encoding/json"
	"fmt"

	"penpost/backend/internal/models"
	"penpost/backend/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnSession is the protocol state machine for one authenticated
// connection. It dispatches inbound control frames against the registry and
// tracks which rooms the connection joined so teardown can release them.
//
// The subscribed set is touched only by the connection's read loop and by
// Teardown, which runs after the read loop ends, so it needs no lock.
type ConnSession struct {
	userID     string
	client     Client
	registry   *Registry
	store      storage.Storage
	log        *zap.Logger
	subscribed map[string]struct{}
}

func NewConnSession(userID string, client Client, registry *Registry, store storage.Storage, log *zap.Logger) *ConnSession {
	return &ConnSession{
		userID:     userID,
		client:     client,
		registry:   registry,
		store:      store,
		log:        log,
		subscribed: make(map[string]struct{}),
	}
}

// HandleFrame processes one inbound control frame. Malformed or unauthorized
// frames are answered with an error event and keep the connection open; only
// a storage failure returns an error, which closes the connection.
func (s *ConnSession) HandleFrame(raw []byte) error {
	var frame models.ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.sendError(models.CodeInvalidJSON, "Frame must be a valid JSON object.")
		return nil
	}
	if frame.RoomID == "" {
		s.sendError(models.CodeMissingRoomID, "Missing required field: room_id.")
		return nil
	}
	if _, err := uuid.Parse(frame.RoomID); err != nil {
		s.sendError(models.CodeInvalidRoomID, "room_id must be a valid UUID.")
		return nil
	}

	// Membership is checked against persistence on every frame, never
	// cached, so a participant removed mid-session loses access at once.
	part, err := s.store.GetParticipant(frame.RoomID, s.userID)
	if err != nil {
		return fmt.Errorf("participant lookup: %w", err)
	}
	if part == nil {
		s.sendError(models.CodeForbidden, "You are not a participant of this room.")
		return nil
	}

	switch frame.Action {
	case models.ActionSubscribe:
		s.registry.Subscribe(s.client, frame.RoomID)
		s.subscribed[frame.RoomID] = struct{}{}
	case models.ActionUnsubscribe:
		s.registry.Unsubscribe(s.client, frame.RoomID)
		delete(s.subscribed, frame.RoomID)
	case models.ActionTyping:
		s.registry.Broadcast(frame.RoomID, models.EventUserTyping,
			models.TypingPayload{UserID: s.userID, Typing: frame.Typing}, s.client)
	default:
		s.sendError(models.CodeUnknownAction, "Expected action: subscribe, unsubscribe, or typing.")
	}
	return nil
}

// Teardown releases every room the connection still holds.
func (s *ConnSession) Teardown() {
	if len(s.subscribed) == 0 {
		return
	}
	roomIDs := make([]string, 0, len(s.subscribed))
	for rid := range s.subscribed {
		roomIDs = append(roomIDs, rid)
	}
	s.registry.UnsubscribeAll(s.client, roomIDs)
	s.subscribed = make(map[string]struct{})
	s.log.Debug("connection session torn down",
		zap.String("user_id", s.userID), zap.Int("rooms", len(roomIDs)))
}

// Subscribed reports whether the session currently tracks the room.
func (s *ConnSession) Subscribed(roomID string) bool {
	_, ok := s.subscribed[roomID]
	return ok
}

func (s *ConnSession) sendError(code, message string) {
	if err := s.client.Send(models.ErrorEvent(code, message)); err != nil {
		s.log.Debug("error frame not delivered", zap.String("user_id", s.userID), zap.Error(err))
	}
}
