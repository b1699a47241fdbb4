package handler

import (
	"net/http"
	"strconv"

	"penpost/backend/internal/api/middleware"
	"penpost/backend/internal/chat"
	"penpost/backend/internal/models"

	"github.com/gin-gonic/gin"
)

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// CreateOrGetRoom handles POST /chat/rooms. Returns the existing direct room
// for the pair when one exists, creating it otherwise; 201 either way.
func (h *Handler) CreateOrGetRoom(c *gin.Context) {
	principal := middleware.Principal(c)
	var body chat.RoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_BODY", "Request body must be valid JSON."))
		return
	}
	view, err := h.Chat.CreateOrGetRoom(principal.UserID, body)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ListRooms handles GET /chat/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	principal := middleware.Principal(c)
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 20)
	pageData, err := h.Chat.ListRooms(principal.UserID, page, limit, c.Query("chat_type"))
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageData)
}

// GetRoom handles GET /chat/rooms/:room_id.
func (h *Handler) GetRoom(c *gin.Context) {
	principal := middleware.Principal(c)
	view, err := h.Chat.GetRoom(c.Param("room_id"), principal.UserID)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListMessages handles GET /chat/rooms/:room_id/messages. Fetching any page
// resets the caller's unread counter for the room.
func (h *Handler) ListMessages(c *gin.Context) {
	principal := middleware.Principal(c)
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)
	pageData, err := h.Chat.ListMessages(c.Param("room_id"), principal.UserID, page, limit, c.Query("before_id"))
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageData)
}

type messageBody struct {
	Content string  `json:"content" binding:"required"`
	QuoteID *string `json:"quote_id"`
}

// CreateMessage handles POST /chat/rooms/:room_id/messages.
func (h *Handler) CreateMessage(c *gin.Context) {
	principal := middleware.Principal(c)
	var body messageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_BODY", "content is required."))
		return
	}
	msg, err := h.Chat.CreateMessage(c.Param("room_id"), principal.UserID, body.Content, body.QuoteID)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewMessagePayload(msg))
}
