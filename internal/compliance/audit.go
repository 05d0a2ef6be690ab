// Package compliance records the safety audit trail and medical disclaimers.
package compliance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/healthguard/internal/risk"
	"github.com/wolfman30/healthguard/internal/safety"
)

// AuditEventType represents the type of compliance event.
type AuditEventType string

const (
	// EventEmergencyEscalated is logged when the safety gate escalates a message.
	EventEmergencyEscalated AuditEventType = "safety.emergency_escalated"
	// EventRequestBlocked is logged when a diagnosis or dosing request is refused.
	EventRequestBlocked AuditEventType = "safety.request_blocked"
	// EventAIResponseRejected is logged when an assistant reply fails validation.
	EventAIResponseRejected AuditEventType = "safety.ai_response_rejected"
	// EventAssessmentCreated is logged for every persisted risk assessment.
	EventAssessmentCreated AuditEventType = "risk.assessment_created"
	// EventSOSTriggered is logged after emergency contacts are notified.
	EventSOSTriggered AuditEventType = "sos.triggered"
	// EventDisclaimerSent is logged when a disclaimer is added to a reply.
	EventDisclaimerSent AuditEventType = "compliance.disclaimer_sent"
)

// Placeholders stored instead of user text that must not be retained.
const (
	redactedMessage = "[REDACTED]"
	blockedMessage  = "[BLOCKED]"
)

// AuditEvent represents an immutable compliance audit record.
type AuditEvent struct {
	ID             string          `json:"id"`
	EventType      AuditEventType  `json:"event_type"`
	UserID         string          `json:"user_id"`
	ConversationID string          `json:"conversation_id,omitempty"`
	HealthLogID    string          `json:"health_log_id,omitempty"`
	UserMessage    string          `json:"user_message,omitempty"`
	AIResponse     string          `json:"ai_response,omitempty"`
	Details        json.RawMessage `json:"details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AuditDetails contains event-specific details.
type AuditDetails struct {
	// For escalations and blocks
	Reason           string   `json:"reason,omitempty"`
	EmergencyType    string   `json:"emergency_type,omitempty"`
	Severity         string   `json:"severity,omitempty"`
	DetectedKeywords []string `json:"detected_keywords,omitempty"`
	Fallback         bool     `json:"fallback,omitempty"`

	// For risk assessments
	RiskLevel   string   `json:"risk_level,omitempty"`
	RuleVersion string   `json:"rule_version,omitempty"`
	RedFlags    []string `json:"red_flags,omitempty"`

	// For SOS dispatch
	ContactsNotified int  `json:"contacts_notified,omitempty"`
	Suppressed       bool `json:"suppressed,omitempty"`

	// For disclaimer sent
	DisclaimerLevel string `json:"disclaimer_level,omitempty"`
}

// AuditService handles compliance audit logging.
type AuditService struct {
	db  *sql.DB
	now func() time.Time
}

// NewAuditService creates a new audit service.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db, now: time.Now}
}

// LogEvent records a compliance audit event. A nil service records nothing.
func (s *AuditService) LogEvent(ctx context.Context, event AuditEvent) error {
	if s == nil || s.db == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}

	query := `
		INSERT INTO safety_audit_events (
			id, event_type, user_id, conversation_id, health_log_id,
			user_message, ai_response, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.UserID,
		nullString(event.ConversationID),
		nullString(event.HealthLogID),
		nullString(event.UserMessage),
		nullString(event.AIResponse),
		[]byte(event.Details),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("compliance: failed to log audit event: %w", err)
	}

	return nil
}

// LogEmergencyEscalated records an escalated message. The message itself is
// redacted; the classification is kept.
func (s *AuditService) LogEmergencyEscalated(ctx context.Context, userID, conversationID string, verdict safety.Verdict) error {
	details := AuditDetails{Reason: verdict.Reason}
	if ec := verdict.EmergencyContext; ec != nil {
		details.EmergencyType = string(ec.Type)
		details.Severity = string(ec.Severity)
		details.DetectedKeywords = ec.DetectedKeywords
		details.Fallback = ec.Fallback
	}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType:      EventEmergencyEscalated,
		UserID:         userID,
		ConversationID: conversationID,
		UserMessage:    redactedMessage,
		Details:        detailsJSON,
	})
}

// LogRequestBlocked records a refused diagnosis or dosing request.
func (s *AuditService) LogRequestBlocked(ctx context.Context, userID, conversationID, reason string) error {
	detailsJSON, _ := json.Marshal(AuditDetails{Reason: reason})

	return s.LogEvent(ctx, AuditEvent{
		EventType:      EventRequestBlocked,
		UserID:         userID,
		ConversationID: conversationID,
		UserMessage:    blockedMessage,
		Details:        detailsJSON,
	})
}

// LogAIResponseRejected keeps the rejected model output for review, with
// contact details scrubbed.
func (s *AuditService) LogAIResponseRejected(ctx context.Context, userID, conversationID, reason, rejected string) error {
	detailsJSON, _ := json.Marshal(AuditDetails{Reason: reason})

	return s.LogEvent(ctx, AuditEvent{
		EventType:      EventAIResponseRejected,
		UserID:         userID,
		ConversationID: conversationID,
		AIResponse:     ScrubPII(rejected),
		Details:        detailsJSON,
	})
}

// LogAssessmentCreated records the rule version that produced an assessment.
func (s *AuditService) LogAssessmentCreated(ctx context.Context, userID, healthLogID string, assessment risk.Assessment) error {
	detailsJSON, _ := json.Marshal(AuditDetails{
		RiskLevel:   string(assessment.RiskLevel),
		RuleVersion: assessment.RuleVersion,
		RedFlags:    assessment.RedFlags,
	})

	return s.LogEvent(ctx, AuditEvent{
		EventType:   EventAssessmentCreated,
		UserID:      userID,
		HealthLogID: healthLogID,
		Details:     detailsJSON,
	})
}

// LogSOSTriggered records the outcome of an emergency contact dispatch.
func (s *AuditService) LogSOSTriggered(ctx context.Context, userID, conversationID string, emergencyType safety.EmergencyType, notified int, suppressed bool) error {
	detailsJSON, _ := json.Marshal(AuditDetails{
		EmergencyType:    string(emergencyType),
		ContactsNotified: notified,
		Suppressed:       suppressed,
	})

	return s.LogEvent(ctx, AuditEvent{
		EventType:      EventSOSTriggered,
		UserID:         userID,
		ConversationID: conversationID,
		Details:        detailsJSON,
	})
}

// LogDisclaimerSent logs when a disclaimer is added to a reply.
func (s *AuditService) LogDisclaimerSent(ctx context.Context, userID, conversationID, level string) error {
	detailsJSON, _ := json.Marshal(AuditDetails{DisclaimerLevel: level})

	return s.LogEvent(ctx, AuditEvent{
		EventType:      EventDisclaimerSent,
		UserID:         userID,
		ConversationID: conversationID,
		Details:        detailsJSON,
	})
}

// QueryEvents retrieves audit events with filters.
func (s *AuditService) QueryEvents(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("compliance: user id is required")
	}
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := `
		SELECT id, event_type, user_id, conversation_id, health_log_id,
			   user_message, ai_response, details, created_at
		FROM safety_audit_events
		WHERE user_id = $1
	`
	args := []interface{}{filter.UserID}
	argIdx := 2

	if filter.ConversationID != "" {
		query += fmt.Sprintf(" AND conversation_id = $%d", argIdx)
		args = append(args, filter.ConversationID)
		argIdx++
	}
	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, filter.EventType)
		argIdx++
	}
	if !filter.StartTime.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.StartTime)
		argIdx++
	}
	if !filter.EndTime.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, filter.EndTime)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var convID, logID, userMsg, aiResp sql.NullString
		var details []byte
		err := rows.Scan(
			&e.ID, &e.EventType, &e.UserID, &convID, &logID,
			&userMsg, &aiResp, &details, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("compliance: failed to scan audit event: %w", err)
		}
		e.ConversationID = convID.String
		e.HealthLogID = logID.String
		e.UserMessage = userMsg.String
		e.AIResponse = aiResp.String
		e.Details = details
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("compliance: failed to iterate audit events: %w", err)
	}

	return events, nil
}

// AuditFilter specifies criteria for querying audit events.
type AuditFilter struct {
	UserID         string
	ConversationID string
	EventType      AuditEventType
	StartTime      time.Time
	EndTime        time.Time
	Limit          int
	Offset         int
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
