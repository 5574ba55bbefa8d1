package handlers

import (
	"log/slog"
	"net/http"

	"marketly-backend/models"
	"marketly-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenIssuer issues session tokens for authenticated users
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthHandler handles registration, login and profile updates
type AuthHandler struct {
	users  *service.UserService
	tokens TokenIssuer
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *service.UserService, tokens TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest represents the request body for a profile update
type UpdateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object")
		return
	}

	// issued inside the registration transaction
	var token string
	user, err := h.users.Register(c.Request.Context(), service.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		OnCreated: func(user *models.User) error {
			var err error
			token, err = h.tokens.Issue(user.ID)
			return err
		},
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusCreated, SessionResponse{User: user.Public(), Token: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, SessionResponse{User: user.Public(), Token: token})
}

// Update handles PUT /auth/update
func (h *AuthHandler) Update(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid token")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object")
		return
	}

	user, err := h.users.Update(c.Request.Context(), service.UpdateUserRequest{
		UserID:          userID,
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"user": user.Public()})
}
