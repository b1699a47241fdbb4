package chathub

import (
	"errors"

	"penpost/backend/internal/models"
)

// Errors a Client may return from Send. Either one marks the connection as
// undeliverable; the registry evicts the client and carries on.
var (
	ErrClientGone     = errors.New("client connection closed")
	ErrSendBufferFull = errors.New("client send buffer full")
)

// Client is one live connection the registry can push events to. It
// abstracts the transport so the registry and the protocol session can be
// tested without a real socket.
type Client interface {
	// UserID returns the principal this connection authenticated as.
	UserID() string
	// Send queues an event for delivery. It must never block: a full buffer
	// or a closed connection is reported as an error instead.
	Send(ev models.ServerEvent) error
	// Close shuts the connection down. Safe to call more than once.
	Close()
}

// SessionHandler consumes inbound frames for one connection. HandleFrame
// returning an error closes the connection; Teardown runs exactly once after
// the read loop ends.
type SessionHandler interface {
	HandleFrame(raw []byte) error
	Teardown()
}
