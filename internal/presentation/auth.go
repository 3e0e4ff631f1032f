package presentation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medigo/orders-service/internal/application"
	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/presentation/helpers"
)

type AuthHandler struct {
	svc *application.AuthService
}

func NewAuthHandler(svc *application.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/login", h.Login)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		helpers.HttpError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.svc.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "User already exists")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User created",
		"user":    u,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.HttpError(w, http.StatusBadRequest, "User not found")
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		helpers.HttpError(w, http.StatusBadRequest, "Wrong password")
		return
	case err != nil:
		helpers.HttpError(w, http.StatusInternalServerError, "login failed")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
	})
}
