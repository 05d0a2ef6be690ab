package healthlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthguard/internal/observability/metrics"
	"github.com/wolfman30/healthguard/internal/risk"
)

type auditCall struct {
	userID, logID string
	level         risk.Level
}

type fakeAudit struct {
	calls []auditCall
	err   error
}

func (f *fakeAudit) LogAssessmentCreated(_ context.Context, userID, healthLogID string, a risk.Assessment) error {
	f.calls = append(f.calls, auditCall{userID, healthLogID, a.RiskLevel})
	return f.err
}

type failingProfiles struct{}

func (failingProfiles) ProfileFor(context.Context, string) (*risk.UserProfile, error) {
	return nil, errors.New("profiles unavailable")
}

type failingRepo struct{ *InMemoryRepository }

func (failingRepo) Create(context.Context, *HealthLog, *StoredAssessment) error {
	return errors.New("db down")
}

func TestService_SubmitAssessesAndStores(t *testing.T) {
	repo := NewInMemoryRepository()
	audit := &fakeAudit{}
	svc := NewService(repo, repo, audit, metrics.NewRiskMetrics(prometheus.NewRegistry()), nil)
	fixed := time.Date(2024, 11, 3, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	entry, err := svc.Submit(context.Background(), CreateHealthLogRequest{
		UserID: "user-1",
		Symptoms: risk.Symptoms{Items: []risk.Symptom{
			{Name: "  chest pain ", Severity: risk.SeveritySevere},
		}},
		Vitals: &risk.Vitals{SpO2: risk.Float(88)},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.Log.ID)
	assert.Equal(t, "chest pain", entry.Log.Symptoms.Items[0].Name)
	assert.Equal(t, fixed, entry.Log.CreatedAt)
	assert.Equal(t, entry.Log.ID, entry.Assessment.HealthLogID)
	assert.Equal(t, risk.LevelEmergency, entry.Assessment.RiskLevel)
	assert.Equal(t, risk.RuleVersion, entry.Assessment.RuleVersion)

	stored, err := svc.Get(context.Background(), "user-1", entry.Log.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Assessment.RiskLevel, stored.Assessment.RiskLevel)

	require.Len(t, audit.calls, 1)
	assert.Equal(t, auditCall{"user-1", entry.Log.ID, risk.LevelEmergency}, audit.calls[0])
}

func TestService_SubmitEmptyLogIsLow(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, nil, nil)

	entry, err := svc.Submit(context.Background(), CreateHealthLogRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, risk.LevelLow, entry.Assessment.RiskLevel)
	assert.Equal(t, []string{"No significant health concerns detected"}, entry.Assessment.Reasons)
	assert.NotNil(t, entry.Log.Symptoms.Items)
}

func TestService_SubmitUsesProfile(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.SetProfile("user-1", &risk.UserProfile{Age: risk.Float(72), Conditions: []string{"Heart disease"}})
	svc := NewService(repo, repo, nil, nil, nil)

	req := CreateHealthLogRequest{
		UserID:   "user-1",
		Symptoms: risk.Symptoms{Items: []risk.Symptom{{Name: "itchy eyes", Severity: risk.SeverityMild}}},
	}
	withProfile, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	req.UserID = "user-2"
	withoutProfile, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, risk.LevelMedium, withProfile.Assessment.RiskLevel)
	assert.Equal(t, risk.LevelLow, withoutProfile.Assessment.RiskLevel)
}

func TestService_SubmitContinuesWithoutProfileOnError(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), failingProfiles{}, nil, nil, nil)

	entry, err := svc.Submit(context.Background(), CreateHealthLogRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, risk.LevelLow, entry.Assessment.RiskLevel)
}

func TestService_SubmitErrors(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil, nil)
	_, err := svc.Submit(context.Background(), CreateHealthLogRequest{
		UserID:   "user-1",
		Symptoms: risk.Symptoms{Items: []risk.Symptom{{Name: "cough", Severity: "awful"}}},
	})
	assert.ErrorIs(t, err, ErrInvalidSymptom)

	audit := &fakeAudit{}
	broken := NewService(failingRepo{NewInMemoryRepository()}, nil, audit, nil, nil)
	_, err = broken.Submit(context.Background(), CreateHealthLogRequest{UserID: "user-1"})
	assert.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Empty(t, audit.calls, "nothing is audited when the write fails")
}

func TestService_SubmitIgnoresAuditFailure(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, &fakeAudit{err: errors.New("audit down")}, nil, nil)
	_, err := svc.Submit(context.Background(), CreateHealthLogRequest{UserID: "user-1"})
	assert.NoError(t, err)
}

func TestService_ListAndGetScopedToUser(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, nil, nil)
	ctx := context.Background()

	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		entry, err := svc.Submit(ctx, CreateHealthLogRequest{UserID: "user-1"})
		require.NoError(t, err)
		ids = append(ids, entry.Log.ID)
	}
	_, err := svc.Submit(ctx, CreateHealthLogRequest{UserID: "user-2"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].Log.ID, "newest first")
	assert.Equal(t, ids[1], list[1].Log.ID)

	_, err = svc.Get(ctx, "user-2", ids[0])
	assert.ErrorIs(t, err, ErrLogNotFound)

	_, err = svc.List(ctx, "", 10)
	assert.ErrorIs(t, err, ErrMissingUser)
}
