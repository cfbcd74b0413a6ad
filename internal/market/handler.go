package market

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the market context over http.
type Handler struct {
	service Service
}

// NewHandler creates a new handler injecting the service.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes attaches the market endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/market/quotes", h.handleQuotes)
	r.Get("/market/context", h.handleContext)
}

type contextResponse struct {
	Context string `json:"context"`
}

func (h *Handler) handleQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Quotes(r.Context()))
}

func (h *Handler) handleContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, contextResponse{Context: h.service.Snapshot(r.Context())})
}

// writeJSON is a helper function for sending json responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
