package compliance

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wolfman30/healthguard/internal/identity"
	"github.com/wolfman30/healthguard/pkg/logging"
)

// AuditHandler lets a user read their own safety audit trail.
type AuditHandler struct {
	audit  *AuditService
	logger *logging.Logger
}

func NewAuditHandler(audit *AuditService, logger *logging.Logger) *AuditHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditHandler{audit: audit, logger: logger}
}

type listEventsResponse struct {
	Events []AuditEvent `json:"events"`
	Count  int          `json:"count"`
}

// ListEvents handles GET /api/v1/safety/events?type=&conversation_id=&since=&limit=
func (h *AuditHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := AuditFilter{
		UserID:         userID,
		ConversationID: q.Get("conversation_id"),
		EventType:      AuditEventType(q.Get("type")),
		Limit:          50,
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 200 {
			http.Error(w, "limit must be between 1 and 200", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "since must be RFC3339", http.StatusBadRequest)
			return
		}
		filter.StartTime = since
	}

	events, err := h.audit.QueryEvents(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to query audit events", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []AuditEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listEventsResponse{Events: events, Count: len(events)})
}
