package handler

import (
	"net/http"
	"time"

	"penpost/backend/internal/api/middleware"
	"penpost/backend/internal/session"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// mintToken signs a session token. The signature only proves the token came
// from this service; authority lives in the Redis session row, so revocation
// is immediate.
func (h *Handler) mintToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": uuid.New().String(),
		"exp": time.Now().Add(ttl).Unix(),
		"iss": "penpost-backend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}

// Login verifies credentials against the identity provider and opens a
// session.
func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_BODY", "email and password are required."))
		return
	}

	id, err := h.Verifier.Verify(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.Log.Error("identity provider unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorBody("SERVICE_ERROR", "Identity provider unavailable."))
		return
	}
	if id == nil {
		c.JSON(http.StatusUnauthorized, errorBody("INVALID_CREDENTIALS", "Invalid email or password."))
		return
	}

	user, err := h.Store.EnsureUser(id.Username, id.Email)
	if err != nil {
		h.Log.Error("user lookup failed", zap.String("email", id.Email), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorBody("SERVICE_ERROR", "Login failed. Please try again."))
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, errorBody("ACCOUNT_DISABLED", "This account has been deactivated."))
		return
	}

	token, err := h.mintToken(user.ID, h.Sessions.TTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", "Failed to create session token."))
		return
	}
	principal := session.Principal{UserID: user.ID, Email: user.Email, Active: user.IsActive}
	if err := h.Sessions.Create(c.Request.Context(), token, principal); err != nil {
		h.Log.Error("session create failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorBody("SERVICE_ERROR", "Login failed. Please try again."))
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Logout revokes the caller's session.
func (h *Handler) Logout(c *gin.Context) {
	token := middleware.Token(c)
	if _, err := h.Sessions.Remove(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("SERVICE_ERROR", "Logout failed. Please try again."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	principal := middleware.Principal(c)
	user, err := h.Store.GetUserByID(principal.UserID)
	if err != nil {
		h.Log.Error("user lookup failed", zap.String("user_id", principal.UserID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorBody("SERVICE_ERROR", "Profile lookup failed. Please try again."))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "User not found."))
		return
	}
	c.JSON(http.StatusOK, user)
}
