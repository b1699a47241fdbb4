package handler

import (
	"errors"

	"penpost/backend/internal/chat"
	"penpost/backend/internal/chathub"
	"penpost/backend/internal/identity"
	"penpost/backend/internal/session"
	"penpost/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the wired dependencies for every HTTP route.
type Handler struct {
	Chat     *chat.Service
	Registry *chathub.Registry
	Store    storage.Storage
	Sessions *session.Store
	Verifier identity.Verifier
	Log      *zap.Logger

	JWTSecret         string
	WSAllowAllOrigins bool
}

func NewHandler(chatSvc *chat.Service, registry *chathub.Registry, store storage.Storage,
	sessions *session.Store, verifier identity.Verifier, jwtSecret string, log *zap.Logger) *Handler {
	return &Handler{
		Chat:      chatSvc,
		Registry:  registry,
		Store:     store,
		Sessions:  sessions,
		Verifier:  verifier,
		JWTSecret: jwtSecret,
		Log:       log,
	}
}

// errorBody is the uniform error response shape.
func errorBody(code, message string) gin.H {
	return gin.H{"code": code, "message": message}
}

// respondChatError maps the chat error taxonomy onto HTTP statuses.
func (h *Handler) respondChatError(c *gin.Context, err error) {
	var e *chat.Error
	if !errors.As(err, &e) {
		h.Log.Error("unhandled error in chat handler", zap.Error(err))
		c.JSON(500, errorBody("INTERNAL", "Internal server error."))
		return
	}
	var status int
	switch e.Kind {
	case chat.KindValidation:
		status = 400
	case chat.KindNotFound:
		status = 404
	case chat.KindUnavailable:
		status = 503
	default:
		status = 500
	}
	c.JSON(status, errorBody(e.Code, e.Message))
}
