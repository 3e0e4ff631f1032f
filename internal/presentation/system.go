package presentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medigo/orders-service/internal/config"
	"github.com/medigo/orders-service/internal/presentation/helpers"
)

type SystemHandler struct {
	pingMessage string
}

func NewSystemHandler(pingMessage string) *SystemHandler {
	return &SystemHandler{pingMessage: pingMessage}
}

func (h *SystemHandler) Register(r chi.Router) {
	r.Get("/api/ping", h.Ping)
	r.Get("/api/_env", h.EnvPresence)
}

func (h *SystemHandler) Ping(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": h.pingMessage})
}

// EnvPresence reports which payment/auth env vars are set, booleans only.
// Used when debugging deployments; secret values never leave the process.
func (h *SystemHandler) EnvPresence(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"present": config.EnvPresence(),
	})
}
