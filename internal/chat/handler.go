package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"finance-companion/internal/auth"
	"finance-companion/internal/domain"
	"finance-companion/internal/render"

	"github.com/go-chi/chi/v5"
)

// SessionIDHeader names the conversation for callers without an authenticated identity.
const SessionIDHeader = "X-Session-ID"

// maxUploadBytes caps a multipart chat upload.
const maxUploadBytes = 10 << 20

// Handler is the HTTP API layer for the chat orchestrator.
type Handler struct {
	service  Service
	markdown *render.Markdown
}

// NewHandler creates a new handler.
func NewHandler(s Service, md *render.Markdown) *Handler {
	return &Handler{
		service:  s,
		markdown: md,
	}
}

// RegisterRoutes attaches all chat endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/messages", h.handleSendMessage)
	r.Get("/chat/messages", h.handleGetHistory)
	r.Delete("/chat/messages", h.handleClear)
	r.Get("/chat/events", h.handleEvents)
}

// --- DTOs ---

type sendMessageRequest struct {
	Content string `json:"content"`
}

// messageView is a message plus its rendered html for assistant replies.
type messageView struct {
	domain.Message
	HTML string `json:"html,omitempty"`
}

type historyResponse struct {
	Messages []messageView `json:"messages"`
	Pending  bool          `json:"pending"`
}

// --- Handlers ---

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := conversationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing session")
		return
	}

	text, upload, err := readSendRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	reply, err := h.service.SendMessage(r.Context(), conversationID, text, upload)
	if err != nil {
		switch {
		case errors.Is(err, ErrReplyPending):
			writeError(w, http.StatusConflict, "A reply is still pending")
		case errors.Is(err, ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "Message is empty")
		default:
			writeError(w, http.StatusInternalServerError, "Could not send message")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.view(*reply))
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := conversationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing session")
		return
	}
	h.writeHistory(w, conversationID, h.service.History(r.Context(), conversationID))
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := conversationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing session")
		return
	}
	h.service.Clear(r.Context(), conversationID)
	h.writeHistory(w, conversationID, h.service.History(r.Context(), conversationID))
}

// handleEvents streams conversation events as server-sent events.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := conversationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing session")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	events, cancel := h.service.Subscribe(conversationID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

// conversationID is the user ID when authenticated, otherwise the session header.
func conversationID(r *http.Request) (string, bool) {
	if userID, err := auth.GetUserID(r.Context()); err == nil {
		return userID.String(), true
	}
	id := strings.TrimSpace(r.Header.Get(SessionIDHeader))
	return id, id != ""
}

// readSendRequest accepts either a JSON body or a multipart form with an optional file.
func readSendRequest(r *http.Request) (string, *Upload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", nil, err
		}
		return req.Content, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, err
	}
	text := r.FormValue("content")

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return text, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return text, &Upload{Name: header.Filename, MIMEType: mimeType, Data: data}, nil
}

func (h *Handler) view(msg domain.Message) messageView {
	v := messageView{Message: msg}
	if msg.Role == domain.RoleAssistant && h.markdown != nil {
		v.HTML = h.markdown.HTML(msg.Content)
	}
	return v
}

func (h *Handler) writeHistory(w http.ResponseWriter, conversationID string, msgs []domain.Message) {
	views := make([]messageView, len(msgs))
	for i, m := range msgs {
		views[i] = h.view(m)
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: views, Pending: h.service.Pending(conversationID)})
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
