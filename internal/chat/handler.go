package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/healthguard/internal/identity"
	"github.com/wolfman30/healthguard/pkg/logging"
)

const maxBodyBytes = 32 << 10

// Handler exposes the chat flow over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the handler under /chat.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/messages", h.SendMessage)
	r.Get("/conversations/{conversationID}/messages", h.ListMessages)
}

// SendMessage handles POST /api/v1/chat/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req SendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.UserID = userID

	result, err := h.svc.Send(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListMessagesResponse is the response for a conversation's history.
type ListMessagesResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

// ListMessages handles GET /api/v1/chat/conversations/{conversationID}/messages?limit=N
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			http.Error(w, "limit must be between 1 and 200", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	convID := chi.URLParam(r, "conversationID")
	msgs, err := h.svc.History(r.Context(), userID, convID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []Message{}
	}
	writeJSON(w, http.StatusOK, ListMessagesResponse{ConversationID: convID, Messages: msgs})
}

type checkRequest struct {
	Message string `json:"message"`
}

// CheckSafety handles POST /api/v1/safety/check. It returns the gate verdict
// without storing anything or calling the assistant.
func (h *Handler) CheckSafety(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Check(req.Message))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingUser), errors.Is(err, ErrMissingConversation), errors.Is(err, ErrMessageTooLong):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAssistantFailed):
		http.Error(w, "assistant is temporarily unavailable", http.StatusBadGateway)
	default:
		h.logger.Error("chat request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
