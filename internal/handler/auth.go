package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	respond.JSON(w, http.StatusCreated, user)
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}
