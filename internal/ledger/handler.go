package ledger

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"finance-companion/internal/auth"
	"finance-companion/internal/extract"
	"finance-companion/internal/llm"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxImageBytes caps an uploaded invoice image.
const maxImageBytes = 10 << 20

// Handler is the API layer for the ledger service.
type Handler struct {
	service Service
}

// NewHandler is the constructor for the handler.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes sets up the API routes for this handler.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/invoices", h.handleCreateInvoice)
	r.Get("/invoices", h.handleListInvoices)
	r.Delete("/invoices/{invoiceID}", h.handleDeleteInvoice)
	r.Post("/invoices/extract", h.handleExtractInvoice)
	r.Get("/analytics/summary", h.handleSummary)
}

// --- Handlers ---

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req ManualInvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	inv, err := h.service.SaveManualInvoice(r.Context(), userID, req)
	if err != nil {
		switch err.Error() {
		case "missing vendor or invoice number":
			writeError(w, http.StatusBadRequest, "Please fill in vendor and invoice number")
		case "invalid invoice date":
			writeError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		default:
			writeError(w, http.StatusInternalServerError, "Could not save invoice")
		}
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	invoices, err := h.service.ListInvoices(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not fetch invoices")
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	invoiceID, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	if err := h.service.DeleteInvoice(r.Context(), userID, invoiceID); err != nil {
		if err.Error() == "invoice not found" {
			writeError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not delete invoice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExtractInvoice accepts a multipart "file" image and returns the fields read from it.
func (h *Handler) handleExtractInvoice(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.GetUserID(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if !extract.IsImage(mimeType) {
		mimeType = http.DetectContentType(image)
	}
	if !extract.IsImage(mimeType) {
		writeError(w, http.StatusUnsupportedMediaType, "Invoice must be an image")
		return
	}

	data, err := h.service.ExtractInvoice(r.Context(), image, strings.TrimSpace(mimeType))
	if err != nil {
		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			status := http.StatusBadGateway
			if perr.Kind == llm.KindConfiguration {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, perr.Message)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "Could not read invoice")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
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
