package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthguard/internal/risk"
	"github.com/wolfman30/healthguard/internal/safety"
)

func TestAuditService_LogEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	tests := []struct {
		name    string
		event   AuditEvent
		execErr error
		wantErr bool
	}{
		{
			name: "request blocked",
			event: AuditEvent{
				EventType:      EventRequestBlocked,
				UserID:         uuid.New().String(),
				ConversationID: "conv-123",
				UserMessage:    blockedMessage,
			},
		},
		{
			name: "assessment created without conversation",
			event: AuditEvent{
				EventType:   EventAssessmentCreated,
				UserID:      uuid.New().String(),
				HealthLogID: uuid.New().String(),
				Details:     json.RawMessage(`{"risk_level":"LOW"}`),
			},
		},
		{
			name: "database failure",
			event: AuditEvent{
				EventType: EventSOSTriggered,
				UserID:    "user-1",
			},
			execErr: errors.New("connection reset"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := mock.ExpectExec("INSERT INTO safety_audit_events")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := service.LogEvent(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogEmergencyEscalatedRedactsMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fixed := time.Date(2024, 11, 3, 9, 0, 0, 0, time.UTC)
	service := NewAuditService(db)
	service.now = func() time.Time { return fixed }

	verdict := safety.CheckSafety("I have chest pain and can't breathe")
	details, _ := json.Marshal(AuditDetails{
		Reason:           verdict.Reason,
		EmergencyType:    "CARDIAC",
		Severity:         "CRITICAL",
		DetectedKeywords: verdict.EmergencyContext.DetectedKeywords,
	})

	mock.ExpectExec("INSERT INTO safety_audit_events").
		WithArgs(sqlmock.AnyArg(), EventEmergencyEscalated, "user-1", "conv-1", nil, redactedMessage, nil, details, fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogEmergencyEscalated(context.Background(), "user-1", "conv-1", verdict)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogAssessmentCreated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)
	assessment := risk.Assess(risk.HealthLogInput{Vitals: &risk.Vitals{SpO2: risk.Float(85)}}, nil)

	mock.ExpectExec("INSERT INTO safety_audit_events").
		WithArgs(sqlmock.AnyArg(), EventAssessmentCreated, "user-1", nil, "log-1", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogAssessmentCreated(context.Background(), "user-1", "log-1", assessment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogSOSAndRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	mock.ExpectExec("INSERT INTO safety_audit_events").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO safety_audit_events").
		WithArgs(sqlmock.AnyArg(), EventAIResponseRejected, "user-1", "conv-1", nil, nil,
			"Take 400 mg, questions to [EMAIL]", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, service.LogSOSTriggered(context.Background(), "user-1", "conv-1", safety.EmergencyCardiac, 2, false))
	assert.NoError(t, service.LogAIResponseRejected(context.Background(), "user-1", "conv-1", safety.ReasonDosageInstructions, "Take 400 mg, questions to nurse@clinic.example.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_NilIsNoop(t *testing.T) {
	var service *AuditService
	assert.NoError(t, service.LogRequestBlocked(context.Background(), "user-1", "conv-1", "x"))
}

func TestAuditService_QueryEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "event_type", "user_id", "conversation_id", "health_log_id",
		"user_message", "ai_response", "details", "created_at",
	}).AddRow(
		uuid.NewString(), EventRequestBlocked, "user-123", "conv-456", nil,
		blockedMessage, nil, []byte(`{"reason":"Diagnosis request detected"}`), now,
	)

	mock.ExpectQuery("SELECT (.+) FROM safety_audit_events WHERE user_id = \\$1 AND event_type = \\$2").
		WithArgs("user-123", EventRequestBlocked, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	filter := AuditFilter{
		UserID:    "user-123",
		EventType: EventRequestBlocked,
		StartTime: now.Add(-24 * time.Hour),
		EndTime:   now,
		Limit:     100,
	}

	events, err := service.QueryEvents(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventRequestBlocked, events[0].EventType)
	assert.Equal(t, "conv-456", events[0].ConversationID)
	assert.Empty(t, events[0].HealthLogID)
	assert.JSONEq(t, `{"reason":"Diagnosis request detected"}`, string(events[0].Details))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_QueryEventsRequiresUser(t *testing.T) {
	service := NewAuditService(nil)
	_, err := service.QueryEvents(context.Background(), AuditFilter{})
	assert.Error(t, err)
}

func TestAuditEventType_String(t *testing.T) {
	tests := []struct {
		eventType AuditEventType
		expected  string
	}{
		{EventEmergencyEscalated, "safety.emergency_escalated"},
		{EventRequestBlocked, "safety.request_blocked"},
		{EventAIResponseRejected, "safety.ai_response_rejected"},
		{EventAssessmentCreated, "risk.assessment_created"},
		{EventSOSTriggered, "sos.triggered"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.eventType))
		})
	}
}
