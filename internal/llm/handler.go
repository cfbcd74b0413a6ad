package llm

import (
	"encoding/json"
	"errors"
	"net/http"

	"finance-companion/internal/domain"

	"github.com/go-chi/chi/v5"
)

// Handler is the http api layer for the stateless completion gateway.
type Handler struct {
	service Service
}

// NewHandler creates a new handler injecting the service.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes attaches the llm endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/llm/complete", h.handleComplete)
}

// --- DTOs ---

// completeRequest carries a fully built conversation from a trusted caller.
type completeRequest struct {
	SystemInstruction string        `json:"system_instruction"`
	Turns             []domain.Turn `json:"turns"`
}

type completeResponse struct {
	Provider string `json:"provider"`
	Content  string `json:"content"`
}

// --- Handlers ---

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	reply, err := h.service.Send(r.Context(), &domain.ConversationRequest{
		SystemInstruction: req.SystemInstruction,
		Turns:             req.Turns,
	})
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			writeError(w, statusForKind(perr.Kind), perr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not process chat")
		return
	}

	writeJSON(w, http.StatusOK, completeResponse{Provider: h.service.ProviderName(), Content: reply})
}

func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// writeJSON is a helper function for sending json responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for sending a standardized json error.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
