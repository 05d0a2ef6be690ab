package safety

import "regexp"

// ResponseCheck is the verdict on a model reply.
type ResponseCheck struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason,omitempty"`
}

const (
	ReasonDefinitiveDiagnosis = "Response contains a definitive diagnosis"
	ReasonDosageInstructions  = "Response contains specific dosage instructions"
)

var definitiveDiagnosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\byou\s+(definitely|certainly|clearly|obviously)\s+have\b`),
	regexp.MustCompile(`(?i)\byour\s+diagnosis\s+is\b`),
	regexp.MustCompile(`(?i)\bi\s+can\s+confirm\s+(that\s+)?you\s+have\b`),
	regexp.MustCompile(`(?i)\bi\s+(can\s+)?diagnose\s+you\s+with\b`),
}

var dosageInstructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btake\s+\d+(\.\d+)?\s*(mg|milligrams?|mcg|micrograms?|ml|g|grams?|units?)\b`),
	regexp.MustCompile(`(?i)\bdosage\s+(is|should\s+be|of)\s+\d+`),
	regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(mg|milligrams?|mcg|ml)\s+(every|twice|three\s+times|once|per|a\s+day|daily)\b`),
}

// ValidateAIResponse rejects model output that states a diagnosis as fact or
// gives a concrete dose. Rejected replies should be swapped for
// SafeFallbackResponse.
func ValidateAIResponse(text string) ResponseCheck {
	normalized := normalize(text)
	if matchAny(definitiveDiagnosisPatterns, normalized) {
		return ResponseCheck{Safe: false, Reason: ReasonDefinitiveDiagnosis}
	}
	if matchAny(dosageInstructionPatterns, normalized) {
		return ResponseCheck{Safe: false, Reason: ReasonDosageInstructions}
	}
	return ResponseCheck{Safe: true}
}
