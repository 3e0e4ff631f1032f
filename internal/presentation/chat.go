package presentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medigo/orders-service/internal/application"
	"github.com/medigo/orders-service/internal/presentation/helpers"
)

type ChatHandler struct {
	svc *application.ChatService
}

func NewChatHandler(svc *application.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) Register(r chi.Router) {
	r.Post("/api/chat", h.Chat)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Message == "" {
		helpers.HttpError(w, http.StatusBadRequest, "missing message")
		return
	}

	reply, err := h.svc.Reply(r.Context(), req.Message)
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "chat failed")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
