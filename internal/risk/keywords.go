package risk

import "strings"

var emergencySymptoms = []string{
	"chest pain",
	"difficulty breathing",
	"severe bleeding",
	"unconscious",
	"seizure",
	"stroke",
	"paralysis",
	"suicidal thoughts",
	"severe allergic reaction",
}

// High-risk entries avoid containing medium-risk names, since matching is
// bidirectional and "fever" would otherwise hit "high fever".
var highRiskSymptoms = []string{
	"severe abdominal pain",
	"confusion",
	"fainting",
	"blood in stool",
	"blood in urine",
	"shortness of breath",
	"irregular heartbeat",
	"blurred vision",
	"slurred speech",
}

var mediumRiskSymptoms = []string{
	"fever",
	"headache",
	"nausea",
	"vomiting",
	"diarrhea",
	"cough",
	"sore throat",
	"dizziness",
	"fatigue",
	"rash",
	"body aches",
}

// chronicConditions are compared after trimming and lowercasing.
var chronicConditions = map[string]struct{}{
	"diabetes":      {},
	"heart disease": {},
	"hypertension":  {},
	"asthma":        {},
	"copd":          {},
}

// matchesKeyword reports whether name and keyword contain one another,
// ignoring case. Blank names never match.
func matchesKeyword(name, keyword string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	k := strings.ToLower(keyword)
	return strings.Contains(n, k) || strings.Contains(k, n)
}

func matchesAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if matchesKeyword(name, k) {
			return true
		}
	}
	return false
}

func nameContains(name, fragment string) bool {
	return strings.Contains(strings.ToLower(name), fragment)
}
