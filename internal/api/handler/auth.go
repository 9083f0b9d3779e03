// internal/api/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"

	"auction-listings/internal/service"
	"auction-listings/internal/util"
	"auction-listings/pkg/auth"
)

// AuthHandler handles sign-up and login.
type AuthHandler struct {
	responder
	service service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{logger: logger}, service: svc}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// Register creates an account and returns a token for it.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	token, err := h.service.Register(r.Context(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Confirmation: req.Confirmation,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("User registered", "user_id", token.User.ID)
	h.respondWithJSON(w, http.StatusCreated, token)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, token)
}

// Me returns the authenticated user.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}
