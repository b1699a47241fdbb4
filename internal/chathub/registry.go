package chathub

import (
	"sync"

	"penpost/backend/internal/models"

	"go.uber.org/zap"
)

// Registry is the process-wide map from room id to the set of live
// connections subscribed to it. Room entries exist only while they have
// subscribers; persistence knows nothing about them.
//
// One mutex guards the whole table. Subscriptions are control-plane traffic,
// so a single critical section is plenty and keeps the invariants easy to
// check. Broadcast snapshots the subscriber set under the lock and sends
// outside it, so a concurrent subscribe or unsubscribe never corrupts an
// in-flight delivery.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]map[Client]struct{}
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]map[Client]struct{}),
		log:   log,
	}
}

// Subscribe adds the client to the room's subscriber set. Subscribing twice
// is a no-op. Callers must have already verified the client's principal is a
// participant of the room.
func (r *Registry) Subscribe(c Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.rooms[roomID]
	if !ok {
		set = make(map[Client]struct{})
		r.rooms[roomID] = set
	}
	set[c] = struct{}{}
}

// Unsubscribe removes the client from the room's subscriber set, dropping
// the room entry when it empties. Unsubscribing a client that was never
// subscribed is a no-op.
func (r *Registry) Unsubscribe(c Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(c, roomID)
}

// UnsubscribeAll removes the client from every given room; used on
// connection teardown.
func (r *Registry) UnsubscribeAll(c Client, roomIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rid := range roomIDs {
		r.removeLocked(c, rid)
	}
}

func (r *Registry) removeLocked(c Client, roomID string) {
	set, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.rooms, roomID)
	}
}

// Broadcast pushes an event to every subscriber of the room except exclude.
// A failed send evicts that subscriber and never interrupts delivery to the
// rest; the caller is never told about individual failures.
func (r *Registry) Broadcast(roomID, event string, payload any, exclude Client) {
	ev := models.ServerEvent{Event: event, RoomID: roomID, Payload: payload}

	r.mu.Lock()
	targets := make([]Client, 0, len(r.rooms[roomID]))
	for c := range r.rooms[roomID] {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	r.mu.Unlock()

	var dead []Client
	for _, c := range targets {
		if err := c.Send(ev); err != nil {
			r.log.Warn("broadcast send failed, evicting subscriber",
				zap.String("room_id", roomID),
				zap.String("user_id", c.UserID()),
				zap.Error(err))
			dead = append(dead, c)
		}
	}

	if len(dead) > 0 {
		r.mu.Lock()
		for _, c := range dead {
			r.removeLocked(c, roomID)
		}
		r.mu.Unlock()
	}
}

// BroadcastAsync schedules a broadcast without blocking the caller. Used
// from request handlers that just committed a message and must not wait on
// fan-out. Safe on a nil registry, which keeps isolated tests quiet.
func (r *Registry) BroadcastAsync(roomID, event string, payload any) {
	if r == nil {
		return
	}
	go r.Broadcast(roomID, event, payload, nil)
}

// IsSubscribed reports whether the client currently subscribes to the room.
func (r *Registry) IsSubscribed(c Client, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID][c]
	return ok
}

// NumSubscribers returns the current subscriber count for a room.
func (r *Registry) NumSubscribers(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}
