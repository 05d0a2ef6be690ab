// Package healthlog accepts daily health logs, scores them with the risk
// engine and stores the log together with its assessment.
package healthlog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wolfman30/healthguard/internal/risk"
)

const (
	maxSymptoms       = 50
	maxSymptomNameLen = 200
	maxFreeTextLen    = 2000
	maxNotesLen       = 2000
	maxMeals          = 20
)

// HealthLog is a stored log submission.
type HealthLog struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Symptoms  risk.Symptoms   `json:"symptoms"`
	Vitals    *risk.Vitals    `json:"vitals,omitempty"`
	Lifestyle *risk.Lifestyle `json:"lifestyle,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Input returns the part of the log the risk engine scores.
func (l *HealthLog) Input() risk.HealthLogInput {
	return risk.HealthLogInput{Symptoms: l.Symptoms, Vitals: l.Vitals, Lifestyle: l.Lifestyle}
}

// StoredAssessment is an assessment linked to the log that produced it.
type StoredAssessment struct {
	ID          string    `json:"id"`
	HealthLogID string    `json:"health_log_id"`
	CreatedAt   time.Time `json:"created_at"`
	risk.Assessment
}

// Entry pairs a log with its assessment.
type Entry struct {
	Log        HealthLog        `json:"log"`
	Assessment StoredAssessment `json:"assessment"`
}

// CreateHealthLogRequest represents the request body for submitting a log
type CreateHealthLogRequest struct {
	UserID    string          `json:"-"`
	Symptoms  risk.Symptoms   `json:"symptoms"`
	Vitals    *risk.Vitals    `json:"vitals,omitempty"`
	Lifestyle *risk.Lifestyle `json:"lifestyle,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Validate checks the request before it reaches the risk engine.
func (r *CreateHealthLogRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUser
	}
	if err := validateSymptoms(r.Symptoms); err != nil {
		return err
	}
	if err := validateVitals(r.Vitals); err != nil {
		return err
	}
	if err := validateLifestyle(r.Lifestyle); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Notes) > maxNotesLen {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidSymptom, maxNotesLen)
	}
	return nil
}

// normalize trims symptom names in place.
func (r *CreateHealthLogRequest) normalize() {
	for i := range r.Symptoms.Items {
		r.Symptoms.Items[i].Name = strings.TrimSpace(r.Symptoms.Items[i].Name)
		r.Symptoms.Items[i].Duration = strings.TrimSpace(r.Symptoms.Items[i].Duration)
	}
	r.Symptoms.FreeText = strings.TrimSpace(r.Symptoms.FreeText)
	r.Notes = strings.TrimSpace(r.Notes)
}

func validateSymptoms(s risk.Symptoms) error {
	if len(s.Items) > maxSymptoms {
		return fmt.Errorf("%w: at most %d symptoms per log", ErrInvalidSymptom, maxSymptoms)
	}
	for i, item := range s.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("%w: symptom %d has no name", ErrInvalidSymptom, i+1)
		}
		if utf8.RuneCountInString(name) > maxSymptomNameLen {
			return fmt.Errorf("%w: symptom %d name is too long", ErrInvalidSymptom, i+1)
		}
		if !item.Severity.Valid() {
			return fmt.Errorf("%w: symptom %q has unknown severity %q", ErrInvalidSymptom, name, item.Severity)
		}
	}
	if utf8.RuneCountInString(s.FreeText) > maxFreeTextLen {
		return fmt.Errorf("%w: free text exceeds %d characters", ErrInvalidSymptom, maxFreeTextLen)
	}
	return nil
}

type vitalRange struct {
	name     string
	value    *float64
	min, max float64
}

func validateVitals(v *risk.Vitals) error {
	if v == nil {
		return nil
	}
	for _, r := range []vitalRange{
		{"heart_rate", v.HeartRate, 0, 300},
		{"temperature", v.Temperature, 25, 45},
		{"bp_systolic", v.BPSystolic, 0, 300},
		{"bp_diastolic", v.BPDiastolic, 0, 200},
		{"spo2", v.SpO2, 0, 100},
	} {
		if r.value == nil {
			continue
		}
		if *r.value < r.min || *r.value > r.max {
			return fmt.Errorf("%w: %s must be between %g and %g", ErrInvalidVitals, r.name, r.min, r.max)
		}
	}
	return nil
}

func validateLifestyle(l *risk.Lifestyle) error {
	if l == nil {
		return nil
	}
	if l.SleepHours != nil && (*l.SleepHours < 0 || *l.SleepHours > 24) {
		return fmt.Errorf("%w: sleep_hours must be between 0 and 24", ErrInvalidLifestyle)
	}
	switch l.StressLevel {
	case "", risk.StressLow, risk.StressModerate, risk.StressHigh:
	default:
		return fmt.Errorf("%w: unknown stress_level %q", ErrInvalidLifestyle, l.StressLevel)
	}
	switch l.Hydration {
	case "", risk.HydrationPoor, risk.HydrationAdequate, risk.HydrationGood:
	default:
		return fmt.Errorf("%w: unknown hydration %q", ErrInvalidLifestyle, l.Hydration)
	}
	if l.Meals != nil && (*l.Meals < 0 || *l.Meals > maxMeals) {
		return fmt.Errorf("%w: meals must be between 0 and %d", ErrInvalidLifestyle, maxMeals)
	}
	return nil
}
