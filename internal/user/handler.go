package user

import (
	"encoding/json"
	"net/http"

	"finance-companion/internal/auth"

	"github.com/go-chi/chi/v5"
)

// Handler is the HTTP API layer for profiles.
// It holds a dependency on the service layer.
type Handler struct {
	service Service
}

// NewHandler is the constructor for the Handler.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes attaches the profile endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGetProfile)
	r.Put("/profile", h.handleUpdateProfile)
}

// updateProfileRequest is the DTO for PUT /profile.
type updateProfileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// handleGetProfile fetches the profile for the authenticated user.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if err.Error() == "profile not found" {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not retrieve profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req.FullName, req.AvatarURL)
	if err != nil {
		if err.Error() == "invalid avatar url" {
			writeError(w, http.StatusBadRequest, "Avatar URL must be an http or https link")
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
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
