package healthlog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthguard/internal/identity"
	"github.com/wolfman30/healthguard/pkg/logging"
)

const maxBodyBytes = 64 << 10

// Handler handles HTTP requests for health logs
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new health log handler
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the handler under /health-logs.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{logID}", h.Get)
}

// Create handles POST /api/v1/health-logs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req CreateHealthLogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode health log", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.UserID = userID

	entry, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ListHealthLogsResponse is the response for listing logs
type ListHealthLogsResponse struct {
	Entries []*Entry `json:"entries"`
	Count   int      `json:"count"`
	Limit   int      `json:"limit"`
}

// List handles GET /api/v1/health-logs?limit=N
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.svc.List(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*Entry{}
	}

	writeJSON(w, http.StatusOK, ListHealthLogsResponse{Entries: entries, Count: len(entries), Limit: limit})
}

// Get handles GET /api/v1/health-logs/{logID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	entry, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "logID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrLogNotFound):
		http.Error(w, "health log not found", http.StatusNotFound)
	default:
		h.logger.Error("health log request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
