package chat

import (
	"errors"
	"fmt"
)

// Kind classifies a chat service error for transport mapping.
type Kind int

const (
	// KindNotFound covers both "does not exist" and "caller may not see
	// it"; the two are deliberately indistinguishable so the API never
	// leaks whether a room exists.
	KindNotFound Kind = iota + 1
	KindValidation
	// KindUnavailable marks a transactional persistence failure; the whole
	// operation rolled back and the caller may retry it.
	KindUnavailable
)

// Error is a classified service error with a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// NotFound builds a not-found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found."}
}

// Validation builds a rejected-input error.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Unavailable wraps a persistence failure the caller may retry.
func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Code: "SERVICE_ERROR", Message: message}
}

// KindOf returns the error's Kind, or 0 for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
