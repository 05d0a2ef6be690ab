package risk

import (
	"fmt"
	"strings"
)

func symptomKeywordRule(e *evaluation) {
	for _, s := range e.log.Symptoms.Items {
		switch {
		case matchesAny(s.Name, emergencySymptoms):
			e.raise(LevelEmergency)
			e.redFlag(fmt.Sprintf("%s requires immediate medical attention", s.Name))
			e.reason(fmt.Sprintf("Emergency symptom reported: %s", s.Name))
		case matchesAny(s.Name, highRiskSymptoms):
			e.raise(LevelHigh)
			e.reason(fmt.Sprintf("High-risk symptom reported: %s", s.Name))
		case matchesAny(s.Name, mediumRiskSymptoms):
			e.raise(LevelMedium)
			e.reason(fmt.Sprintf("Symptom that needs monitoring: %s", s.Name))
		}
	}
}

func severityRule(e *evaluation) {
	var severe []string
	for _, s := range e.log.Symptoms.Items {
		if s.Severity == SeveritySevere {
			severe = append(severe, s.Name)
		}
	}
	if len(severe) == 0 {
		return
	}
	e.reason(fmt.Sprintf("%d severe symptom(s) reported: %s", len(severe), strings.Join(severe, ", ")))
	e.raise(LevelMedium)
	if len(severe) >= 2 && e.level == LevelMedium {
		e.raise(LevelHigh)
	}
}

// durationRule only recognises DurationMoreThanWeek; shorter options such as
// "4-7 days" do not escalate.
func durationRule(e *evaluation) {
	persistent := false
	for _, s := range e.log.Symptoms.Items {
		if s.Duration == DurationMoreThanWeek {
			persistent = true
			e.reason(fmt.Sprintf("%s has persisted for more than a week", s.Name))
		}
	}
	if persistent {
		e.raise(LevelMedium)
		e.step("See a doctor about symptoms that have lasted more than a week")
	}
}

func temperatureRule(e *evaluation) {
	if e.log.Vitals == nil || e.log.Vitals.Temperature == nil {
		return
	}
	t := *e.log.Vitals.Temperature
	switch {
	case t >= 40:
		e.raise(LevelHigh)
		e.redFlag(fmt.Sprintf("Very high fever (%.1f°C)", t))
		e.reason(fmt.Sprintf("Very high body temperature: %.1f°C", t))
	case t >= 38.5:
		e.raise(LevelMedium)
		e.reason(fmt.Sprintf("Fever: %.1f°C", t))
	case t >= 37.5:
		e.reason(fmt.Sprintf("Slightly elevated temperature: %.1f°C", t))
	}
}

func heartRateRule(e *evaluation) {
	if e.log.Vitals == nil || e.log.Vitals.HeartRate == nil {
		return
	}
	hr := *e.log.Vitals.HeartRate
	switch {
	case hr < 40 || hr > 150:
		e.raise(LevelHigh)
		e.redFlag(fmt.Sprintf("Dangerous heart rate: %.0f bpm", hr))
		e.reason(fmt.Sprintf("Heart rate far outside the normal range: %.0f bpm", hr))
	case hr < 50 || hr > 120:
		e.raise(LevelMedium)
		e.reason(fmt.Sprintf("Abnormal heart rate: %.0f bpm", hr))
	}
}

func bloodPressureRule(e *evaluation) {
	v := e.log.Vitals
	if v == nil || (v.BPSystolic == nil && v.BPDiastolic == nil) {
		return
	}
	sys, hasSys := deref(v.BPSystolic)
	dia, hasDia := deref(v.BPDiastolic)
	reading := formatBP(v.BPSystolic, v.BPDiastolic)

	switch {
	case (hasSys && sys >= 180) || (hasDia && dia >= 120):
		e.raise(LevelHigh)
		e.redFlag(fmt.Sprintf("Hypertensive crisis (%s mmHg)", reading))
		e.reason(fmt.Sprintf("Blood pressure in the crisis range: %s mmHg", reading))
	case (hasSys && sys >= 140) || (hasDia && dia >= 90):
		e.raise(LevelMedium)
		e.reason(fmt.Sprintf("High blood pressure: %s mmHg", reading))
	case (hasSys && sys < 90) || (hasDia && dia < 60):
		e.raise(LevelMedium)
		e.reason(fmt.Sprintf("Low blood pressure: %s mmHg", reading))
	}
}

func spO2Rule(e *evaluation) {
	if e.log.Vitals == nil || e.log.Vitals.SpO2 == nil {
		return
	}
	o := *e.log.Vitals.SpO2
	switch {
	case o < 90:
		e.raise(LevelEmergency)
		e.redFlag(fmt.Sprintf("Critically low oxygen (%.0f%%)", o))
		e.reason(fmt.Sprintf("Blood oxygen critically low: %.0f%%", o))
	case o < 94:
		e.raise(LevelHigh)
		e.redFlag(fmt.Sprintf("Low oxygen saturation (%.0f%%)", o))
		e.reason(fmt.Sprintf("Blood oxygen below normal: %.0f%%", o))
	}
}

func lifestyleRule(e *evaluation) {
	l := e.log.Lifestyle
	if l == nil {
		return
	}
	if l.SleepHours != nil && *l.SleepHours < 4 {
		e.reason(fmt.Sprintf("Very little sleep: %.1f hours", *l.SleepHours))
		e.step("Aim for 7-9 hours of sleep to support recovery")
	}
	if l.StressLevel == StressHigh {
		e.reason("High stress level reported")
		e.step("Try stress management such as breathing exercises, a short walk or talking to someone you trust")
	}
	if l.Hydration == HydrationPoor {
		e.reason("Poor hydration reported")
		e.step("Increase your water intake throughout the day")
	}
}

func chronicConditionRule(e *evaluation) {
	if e.profile == nil || !e.hasSymptoms() {
		return
	}
	var matched []string
	for _, c := range e.profile.Conditions {
		if _, ok := chronicConditions[strings.ToLower(strings.TrimSpace(c))]; ok {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return
	}
	e.raise(LevelMedium)
	e.reason(fmt.Sprintf("Existing chronic condition(s) increase risk: %s", strings.Join(matched, ", ")))
	e.step("Contact your regular healthcare provider about these symptoms given your existing conditions")
}

func ageRule(e *evaluation) {
	if e.profile == nil || e.profile.Age == nil || !e.hasSymptoms() {
		return
	}
	age := *e.profile.Age
	if age > 65 || age < 5 {
		e.raise(LevelMedium)
		e.reason(fmt.Sprintf("Age %.0f warrants closer monitoring of symptoms", age))
	}
}

func combinationRule(e *evaluation) {
	var chestPain, breathing, fever, severeHeadache bool
	for _, s := range e.log.Symptoms.Items {
		if nameContains(s.Name, "chest pain") {
			chestPain = true
		}
		if nameContains(s.Name, "shortness of breath") || nameContains(s.Name, "difficulty breathing") {
			breathing = true
		}
		if nameContains(s.Name, "fever") {
			fever = true
		}
		if nameContains(s.Name, "headache") && s.Severity == SeveritySevere {
			severeHeadache = true
		}
	}
	if v := e.log.Vitals; v != nil && v.Temperature != nil && *v.Temperature >= 38 {
		fever = true
	}

	if chestPain && breathing {
		e.raise(LevelEmergency)
		e.redFlag("Chest pain with breathing difficulty: possible cardiac emergency")
		e.reason("Chest pain combined with breathing difficulty")
	}
	if fever && severeHeadache {
		e.raise(LevelHigh)
		e.redFlag("Fever with severe headache")
		e.reason("Fever combined with a severe headache can indicate a serious infection")
	}
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func formatBP(sys, dia *float64) string {
	part := func(p *float64) string {
		if p == nil {
			return "?"
		}
		return fmt.Sprintf("%.0f", *p)
	}
	return part(sys) + "/" + part(dia)
}
