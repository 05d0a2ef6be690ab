package healthlog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/healthguard/internal/risk"
)

func intPtr(v int) *int { return &v }

func TestCreateHealthLogRequest_Validate(t *testing.T) {
	valid := func() CreateHealthLogRequest {
		return CreateHealthLogRequest{
			UserID: "user-1",
			Symptoms: risk.Symptoms{Items: []risk.Symptom{
				{Name: "headache", Severity: risk.SeverityMild},
			}},
			Vitals:    &risk.Vitals{HeartRate: risk.Float(72), SpO2: risk.Float(98)},
			Lifestyle: &risk.Lifestyle{SleepHours: risk.Float(7), StressLevel: risk.StressLow, Meals: intPtr(3)},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateHealthLogRequest)
		wantErr error
	}{
		{"valid", func(r *CreateHealthLogRequest) {}, nil},
		{"empty log", func(r *CreateHealthLogRequest) { r.Symptoms = risk.Symptoms{}; r.Vitals = nil; r.Lifestyle = nil }, nil},
		{"missing user", func(r *CreateHealthLogRequest) { r.UserID = " " }, ErrMissingUser},
		{"blank symptom name", func(r *CreateHealthLogRequest) { r.Symptoms.Items[0].Name = "  " }, ErrInvalidSymptom},
		{"unknown severity", func(r *CreateHealthLogRequest) { r.Symptoms.Items[0].Severity = "extreme" }, ErrInvalidSymptom},
		{"too many symptoms", func(r *CreateHealthLogRequest) {
			r.Symptoms.Items = make([]risk.Symptom, maxSymptoms+1)
			for i := range r.Symptoms.Items {
				r.Symptoms.Items[i] = risk.Symptom{Name: "cough", Severity: risk.SeverityMild}
			}
		}, ErrInvalidSymptom},
		{"long free text", func(r *CreateHealthLogRequest) { r.Symptoms.FreeText = strings.Repeat("a", maxFreeTextLen+1) }, ErrInvalidSymptom},
		{"spo2 over 100", func(r *CreateHealthLogRequest) { r.Vitals.SpO2 = risk.Float(101) }, ErrInvalidVitals},
		{"negative heart rate", func(r *CreateHealthLogRequest) { r.Vitals.HeartRate = risk.Float(-1) }, ErrInvalidVitals},
		{"temperature in fahrenheit", func(r *CreateHealthLogRequest) { r.Vitals.Temperature = risk.Float(101.3) }, ErrInvalidVitals},
		{"sleep over 24", func(r *CreateHealthLogRequest) { r.Lifestyle.SleepHours = risk.Float(25) }, ErrInvalidLifestyle},
		{"unknown stress", func(r *CreateHealthLogRequest) { r.Lifestyle.StressLevel = "extreme" }, ErrInvalidLifestyle},
		{"unknown hydration", func(r *CreateHealthLogRequest) { r.Lifestyle.Hydration = "soaked" }, ErrInvalidLifestyle},
		{"negative meals", func(r *CreateHealthLogRequest) { r.Lifestyle.Meals = intPtr(-1) }, ErrInvalidLifestyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.False(t, IsValidation(ErrLogNotFound))
	assert.False(t, IsValidation(errors.New("db down")))
}
