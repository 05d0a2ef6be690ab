package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symptoms(items ...Symptom) Symptoms {
	return Symptoms{Items: items}
}

func TestAssess_EmptyLogIsLow(t *testing.T) {
	got := Assess(HealthLogInput{
		Symptoms:  symptoms(),
		Vitals:    &Vitals{},
		Lifestyle: &Lifestyle{},
	}, nil)

	assert.Equal(t, LevelLow, got.RiskLevel)
	assert.Equal(t, []string{"No significant health concerns detected"}, got.Reasons)
	assert.Empty(t, got.RedFlags)
	assert.NotNil(t, got.RedFlags)
	assert.Equal(t, []string{stepHealthyHabits, stepKeepLogging}, got.NextSteps)
	assert.Equal(t, adviceLow, got.ConsultAdvice)
	assert.Equal(t, RuleVersion, got.RuleVersion)
}

func TestAssess_LowOxygenForcesEmergency(t *testing.T) {
	got := Assess(HealthLogInput{
		Symptoms: symptoms(Symptom{Name: "chest pain", Severity: SeveritySevere}),
		Vitals:   &Vitals{SpO2: Float(88)},
	}, nil)

	require.Equal(t, LevelEmergency, got.RiskLevel)
	assert.True(t, containsSubstring(got.RedFlags, "oxygen"), "expected an oxygen red flag in %v", got.RedFlags)
	assert.Equal(t, stepCallEmergency, got.NextSteps[0])
	assert.Equal(t, stepDoNotDrive, got.NextSteps[len(got.NextSteps)-1])
	assert.Equal(t, adviceEmergency, got.ConsultAdvice)
}

func TestAssess_OxygenAloneForcesEmergency(t *testing.T) {
	got := Assess(HealthLogInput{Vitals: &Vitals{SpO2: Float(85)}}, nil)
	assert.Equal(t, LevelEmergency, got.RiskLevel)
}

func TestAssess_ModerateCase(t *testing.T) {
	got := Assess(HealthLogInput{
		Symptoms: symptoms(Symptom{Name: "Headache", Severity: SeverityModerate, Duration: "2-3 days"}),
		Vitals:   &Vitals{Temperature: Float(38.7)},
	}, nil)

	assert.Equal(t, LevelMedium, got.RiskLevel)
	assert.Equal(t, []string{stepMonitor, stepSchedule, stepRest}, got.NextSteps)
	assert.Equal(t, adviceMedium, got.ConsultAdvice)
}

func TestAssess_HighKeepsRuleStepsBetweenStandardSteps(t *testing.T) {
	got := Assess(HealthLogInput{
		Symptoms:  symptoms(Symptom{Name: "fainting", Severity: SeverityMild}),
		Lifestyle: &Lifestyle{Hydration: HydrationPoor},
	}, nil)

	require.Equal(t, LevelHigh, got.RiskLevel)
	assert.Equal(t, []string{
		stepSeekCareToday,
		"Increase your water intake throughout the day",
		stepUrgentCare,
		stepMonitorWorse,
	}, got.NextSteps)
}

func TestAssess_Idempotent(t *testing.T) {
	log := HealthLogInput{
		Symptoms: symptoms(
			Symptom{Name: "fever", Severity: SeverityModerate},
			Symptom{Name: "headache", Severity: SeveritySevere, Duration: DurationMoreThanWeek},
		),
		Vitals:    &Vitals{Temperature: Float(39.2), HeartRate: Float(125), BPSystolic: Float(150)},
		Lifestyle: &Lifestyle{SleepHours: Float(3), StressLevel: StressHigh},
	}
	profile := &UserProfile{Age: Float(70), Conditions: []string{"Asthma"}}

	first := Assess(log, profile)
	second := Assess(log, profile)
	assert.Equal(t, first, second)
}

func TestAssess_RuleOrderDoesNotChangeLevel(t *testing.T) {
	logs := []HealthLogInput{
		{Symptoms: symptoms(Symptom{Name: "cough", Severity: SeveritySevere}, Symptom{Name: "rash", Severity: SeveritySevere})},
		{Symptoms: symptoms(Symptom{Name: "chest pain", Severity: SeverityMild}, Symptom{Name: "shortness of breath", Severity: SeverityMild})},
		{Symptoms: symptoms(Symptom{Name: "nausea", Severity: SeverityMild}), Vitals: &Vitals{HeartRate: Float(35), SpO2: Float(92)}},
		{Symptoms: symptoms(Symptom{Name: "headache", Severity: SeveritySevere}), Vitals: &Vitals{Temperature: Float(38.1)}},
		{Vitals: &Vitals{BPSystolic: Float(85), BPDiastolic: Float(55)}},
	}

	forward := NewEngine(DefaultRules()...)
	rules := DefaultRules()
	for i, j := 0, len(rules)-1; i < j; i, j = i+1, j-1 {
		rules[i], rules[j] = rules[j], rules[i]
	}
	reversed := NewEngine(rules...)

	for _, log := range logs {
		a := forward.Assess(log, nil)
		b := reversed.Assess(log, nil)
		assert.Equal(t, a.RiskLevel, b.RiskLevel)
		assert.ElementsMatch(t, a.Reasons, b.Reasons)
		assert.ElementsMatch(t, a.RedFlags, b.RedFlags)
	}
}

func TestAssess_AddingSymptomsNeverLowersLevel(t *testing.T) {
	bases := []HealthLogInput{
		{},
		{Symptoms: symptoms(Symptom{Name: "fatigue", Severity: SeverityMild})},
		{Vitals: &Vitals{HeartRate: Float(130)}},
		{Symptoms: symptoms(Symptom{Name: "fever", Severity: SeverityModerate}), Vitals: &Vitals{Temperature: Float(40.2)}},
		{Vitals: &Vitals{SpO2: Float(80)}},
	}
	extras := []Symptom{
		{Name: "rash", Severity: SeverityMild},
		{Name: "headache", Severity: SeveritySevere},
		{Name: "confusion", Severity: SeverityModerate},
		{Name: "seizure", Severity: SeveritySevere},
		{Name: "unlisted thing", Severity: SeverityMild, Duration: DurationMoreThanWeek},
	}
	profile := &UserProfile{Age: Float(80), Conditions: []string{"diabetes"}}

	for _, base := range bases {
		before := Assess(base, profile)
		for _, extra := range extras {
			next := base
			next.Symptoms.Items = append(append([]Symptom{}, base.Symptoms.Items...), extra)
			after := Assess(next, profile)
			assert.GreaterOrEqual(t, after.RiskLevel.Rank(), before.RiskLevel.Rank(),
				"adding %q lowered %s to %s", extra.Name, before.RiskLevel, after.RiskLevel)
		}
	}
}

func TestAssess_Totality(t *testing.T) {
	long := strings.Repeat("x", 10_000)
	inputs := []HealthLogInput{
		{},
		{Symptoms: Symptoms{Items: []Symptom{}}},
		{Symptoms: symptoms(Symptom{Name: "", Severity: ""})},
		{Symptoms: Symptoms{
			Items:    []Symptom{{Name: long, Severity: SeveritySevere, Duration: long}},
			FreeText: long,
		}},
		{Vitals: &Vitals{}, Lifestyle: &Lifestyle{}},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := Assess(in, &UserProfile{})
			assert.NotEmpty(t, got.Reasons)
			assert.NotEmpty(t, got.ConsultAdvice)
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	assert.Less(t, LevelLow.Rank(), LevelMedium.Rank())
	assert.Less(t, LevelMedium.Rank(), LevelHigh.Rank())
	assert.Less(t, LevelHigh.Rank(), LevelEmergency.Rank())
	assert.Equal(t, LevelHigh, Max(LevelHigh, LevelMedium))
	assert.Equal(t, LevelEmergency, Max(LevelLow, LevelEmergency))
	assert.Equal(t, adviceHigh, ConsultAdvice(LevelHigh))
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(strings.ToLower(s), sub) {
			return true
		}
	}
	return false
}
