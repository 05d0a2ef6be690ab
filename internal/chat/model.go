// Package chat runs every user message through the safety gate before the
// assistant model sees it, and every assistant reply through the response
// validator before the user does.
package chat

import (
	"time"

	"github.com/wolfman30/healthguard/internal/safety"
	"github.com/wolfman30/healthguard/internal/sos"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Flags attached to stored messages.
const (
	FlagSOSTriggered       = "sos_triggered"
	FlagResponseRejected   = "ai_response_rejected"
	FlagEmergencyTemplate  = "emergency_template"
	FlagDisclaimerAppended = "disclaimer_appended"
)

// Message is one stored chat turn.
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	UserID         string        `json:"-"`
	Role           string        `json:"role"`
	Content        string        `json:"content"`
	SafetyResult   safety.Result `json:"safety_result"`
	Flags          []string      `json:"flags"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SendRequest is the request body for POST /chat/messages.
type SendRequest struct {
	UserID         string `json:"-"`
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// SendResult is what the user gets back for one message.
type SendResult struct {
	ConversationID string         `json:"conversation_id"`
	Reply          string         `json:"reply"`
	Verdict        safety.Verdict `json:"verdict"`
	SOSTriggered   bool           `json:"sos_triggered"`
	SOS            *sos.Dispatch  `json:"sos,omitempty"`
}
