// Package safety classifies free-text chat messages before they reach a
// language model and validates model output before it reaches the user.
package safety

import "time"

// Result is the gate decision for one message.
type Result string

const (
	ResultAllow             Result = "ALLOW"
	ResultEmergencyEscalate Result = "EMERGENCY_ESCALATE"
	ResultBlockUnsafe       Result = "BLOCK_UNSAFE"
)

// EmergencyType is the category of a detected emergency.
type EmergencyType string

const (
	EmergencyCardiac      EmergencyType = "CARDIAC"
	EmergencyStroke       EmergencyType = "STROKE"
	EmergencyBreathing    EmergencyType = "BREATHING"
	EmergencyAllergic     EmergencyType = "ALLERGIC"
	EmergencyMentalHealth EmergencyType = "MENTAL_HEALTH"
	EmergencyGeneral      EmergencyType = "GENERAL"
)

// EmergencySeverity grades a detected emergency.
type EmergencySeverity string

const (
	SeverityCritical EmergencySeverity = "CRITICAL"
	SeverityUrgent   EmergencySeverity = "URGENT"
)

// Reasons attached to non-ALLOW verdicts.
const (
	ReasonEmptyMessage     = "Empty message"
	ReasonEmergency        = "Medical emergency detected"
	ReasonHarmfulContent   = "Harmful content detected"
	ReasonDiagnosisRequest = "Diagnosis request detected"
	ReasonMedicationDosing = "Medication dosing request detected"
)

// originalMessageLimit bounds EmergencyContext.OriginalMessage, in runes.
const originalMessageLimit = 200

const (
	// fallbackKeyword marks a context synthesized without a fine-grained match.
	fallbackKeyword = "emergency detected"
	harmfulKeyword  = "harmful content"
)

// EmergencyContext describes an escalated message for SOS dispatch and audit.
type EmergencyContext struct {
	Type             EmergencyType     `json:"type"`
	DetectedKeywords []string          `json:"detected_keywords"`
	Severity         EmergencySeverity `json:"severity"`
	Timestamp        time.Time         `json:"timestamp"`
	OriginalMessage  string            `json:"original_message"`
	// Fallback is true when a top-level emergency pattern fired but no
	// fine-grained pattern did, so Type is GENERAL by default.
	Fallback bool `json:"fallback,omitempty"`
}

// Verdict is the output of the gate.
//
// Result == ResultEmergencyEscalate implies ShouldTriggerSOS and a non-nil
// EmergencyContext.
type Verdict struct {
	Result            Result            `json:"result"`
	Reason            string            `json:"reason,omitempty"`
	SuggestedResponse string            `json:"suggested_response,omitempty"`
	ShouldTriggerSOS  bool              `json:"should_trigger_sos,omitempty"`
	EmergencyContext  *EmergencyContext `json:"emergency_context,omitempty"`
}

// Allowed reports whether the message may be forwarded to the model.
func (v Verdict) Allowed() bool {
	return v.Result == ResultAllow
}
