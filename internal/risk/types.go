// Package risk converts a structured health log into a deterministic risk assessment.
package risk

// RuleVersion identifies the thresholds and keyword lists in this package.
// Bump it whenever a rule, threshold or keyword list changes so stored
// assessments stay interpretable against the rules that produced them.
const RuleVersion = "risk-rules/2024.11.1"

// Level is the assessed risk level. Levels are totally ordered.
type Level string

const (
	LevelLow       Level = "LOW"
	LevelMedium    Level = "MEDIUM"
	LevelHigh      Level = "HIGH"
	LevelEmergency Level = "EMERGENCY"
)

// Rank returns the position of the level in LOW < MEDIUM < HIGH < EMERGENCY.
// Unknown values rank below LOW.
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 0
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	case LevelEmergency:
		return 3
	default:
		return -1
	}
}

// Max returns the higher of two levels.
func Max(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Severity is the user-reported intensity of a symptom.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// StressLevel is the self-reported stress level.
type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
)

// Hydration is the self-reported hydration level.
type Hydration string

const (
	HydrationPoor     Hydration = "poor"
	HydrationAdequate Hydration = "adequate"
	HydrationGood     Hydration = "good"
)

// DurationMoreThanWeek is the only duration option the rules escalate on.
const DurationMoreThanWeek = "more than a week"

// Symptom is a single logged symptom.
type Symptom struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Duration string   `json:"duration,omitempty"`
}

// Symptoms groups the structured symptom list with an unscored free-text note.
type Symptoms struct {
	Items    []Symptom `json:"items"`
	FreeText string    `json:"free_text,omitempty"`
}

// Vitals holds optional vital-sign readings. Nil means not measured.
type Vitals struct {
	HeartRate   *float64 `json:"heart_rate,omitempty"`   // bpm
	Temperature *float64 `json:"temperature,omitempty"`  // °C
	BPSystolic  *float64 `json:"bp_systolic,omitempty"`  // mmHg
	BPDiastolic *float64 `json:"bp_diastolic,omitempty"` // mmHg
	SpO2        *float64 `json:"spo2,omitempty"`         // percent
}

// Lifestyle holds optional lifestyle answers.
type Lifestyle struct {
	SleepHours  *float64    `json:"sleep_hours,omitempty"`
	StressLevel StressLevel `json:"stress_level,omitempty"`
	Hydration   Hydration   `json:"hydration,omitempty"`
	Exercise    *bool       `json:"exercise,omitempty"`
	Meals       *int        `json:"meals,omitempty"`
}

// HealthLogInput is the validated health log the engine scores.
type HealthLogInput struct {
	Symptoms  Symptoms   `json:"symptoms"`
	Vitals    *Vitals    `json:"vitals,omitempty"`
	Lifestyle *Lifestyle `json:"lifestyle,omitempty"`
}

// UserProfile adjusts the level for age and chronic conditions only.
type UserProfile struct {
	Age        *float64 `json:"age,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Allergies  []string `json:"allergies,omitempty"`
}

// Assessment is the immutable result of one evaluation.
type Assessment struct {
	RiskLevel     Level    `json:"risk_level"`
	Reasons       []string `json:"reasons"`
	NextSteps     []string `json:"next_steps"`
	RedFlags      []string `json:"red_flags"`
	ConsultAdvice string   `json:"consult_advice"`
	RuleVersion   string   `json:"rule_version"`
}

// Float returns a pointer to v. Convenience for building Vitals and profiles.
func Float(v float64) *float64 { return &v }
