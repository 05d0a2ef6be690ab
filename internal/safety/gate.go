package safety

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Gate screens inbound chat messages. Checks run in a fixed order:
// emergency, harmful content, diagnosis requests, then medication dosing.
// The first category that matches decides the verdict, so emergencies
// always win over a block.
type Gate struct {
	now func() time.Time
}

// NewGate returns a gate that stamps emergency contexts with now.
// A nil clock falls back to time.Now.
func NewGate(now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{now: now}
}

var defaultGate = NewGate(nil)

// CheckSafety screens message with the default gate.
func CheckSafety(message string) Verdict {
	return defaultGate.Check(message)
}

// Check classifies message. It never panics and never returns an error.
func (g *Gate) Check(message string) Verdict {
	if strings.TrimSpace(message) == "" {
		return Verdict{
			Result:            ResultBlockUnsafe,
			Reason:            ReasonEmptyMessage,
			SuggestedResponse: emptyMessageResponse,
		}
	}

	normalized := normalize(message)

	if matchAny(emergencyPatterns, normalized) {
		return Verdict{
			Result:            ResultEmergencyEscalate,
			Reason:            ReasonEmergency,
			SuggestedResponse: emergencyResponse,
			ShouldTriggerSOS:  true,
			EmergencyContext:  buildEmergencyContext(message, normalized, g.now()),
		}
	}
	if matchAny(harmfulPatterns, normalized) {
		return Verdict{
			Result:            ResultEmergencyEscalate,
			Reason:            ReasonHarmfulContent,
			SuggestedResponse: harmfulContentResponse,
			ShouldTriggerSOS:  true,
			EmergencyContext: &EmergencyContext{
				Type:             EmergencyMentalHealth,
				DetectedKeywords: []string{harmfulKeyword},
				Severity:         SeverityCritical,
				Timestamp:        g.now(),
				OriginalMessage:  truncateRunes(message, originalMessageLimit),
			},
		}
	}
	if matchAny(diagnosisPatterns, normalized) {
		return Verdict{
			Result:            ResultBlockUnsafe,
			Reason:            ReasonDiagnosisRequest,
			SuggestedResponse: diagnosisResponse,
		}
	}
	if matchAny(medicationPatterns, normalized) {
		return Verdict{
			Result:            ResultBlockUnsafe,
			Reason:            ReasonMedicationDosing,
			SuggestedResponse: medicationResponse,
		}
	}
	return Verdict{Result: ResultAllow}
}

// buildEmergencyContext runs the fine-grained table over an escalated message.
// Type comes from the first matching entry; severity is CRITICAL if any
// CRITICAL entry matched. No match leaves GENERAL/URGENT and sets Fallback.
func buildEmergencyContext(original, normalized string, at time.Time) *EmergencyContext {
	ec := &EmergencyContext{
		Severity:        SeverityUrgent,
		Timestamp:       at,
		OriginalMessage: truncateRunes(original, originalMessageLimit),
	}
	for _, p := range contextPatterns {
		if !p.re.MatchString(normalized) {
			continue
		}
		if ec.Type == "" {
			ec.Type = p.kind
		}
		if p.severity == SeverityCritical {
			ec.Severity = SeverityCritical
		}
		ec.DetectedKeywords = append(ec.DetectedKeywords, p.keyword)
	}

	if ec.Type == "" {
		ec.Type = EmergencyGeneral
		ec.DetectedKeywords = []string{fallbackKeyword}
		ec.Fallback = true
	}
	return ec
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
