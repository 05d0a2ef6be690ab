package healthlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/healthguard/internal/observability/metrics"
	"github.com/wolfman30/healthguard/internal/risk"
	"github.com/wolfman30/healthguard/pkg/logging"
)

var tracer = otel.Tracer("healthguard.internal.healthlog")

// AuditLogger records assessment creation; *compliance.AuditService satisfies it.
type AuditLogger interface {
	LogAssessmentCreated(ctx context.Context, userID, healthLogID string, assessment risk.Assessment) error
}

// Service validates, scores and stores health logs.
type Service struct {
	repo     Repository
	profiles ProfileSource
	engine   *risk.Engine
	audit    AuditLogger
	metrics  *metrics.RiskMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService wires the submission flow. profiles, audit and m may be nil.
func NewService(repo Repository, profiles ProfileSource, audit AuditLogger, m *metrics.RiskMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		profiles: profiles,
		engine:   risk.NewEngine(),
		audit:    audit,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates the request, assesses it and persists log and assessment together.
func (s *Service) Submit(ctx context.Context, req CreateHealthLogRequest) (*Entry, error) {
	ctx, span := tracer.Start(ctx, "healthlog.submit")
	defer span.End()
	span.SetAttributes(attribute.String("healthguard.user_id", req.UserID))

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.normalize()

	profile := s.loadProfile(ctx, req.UserID)

	now := s.now().UTC()
	log := &HealthLog{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Symptoms:  req.Symptoms,
		Vitals:    req.Vitals,
		Lifestyle: req.Lifestyle,
		Notes:     req.Notes,
		CreatedAt: now,
	}
	if log.Symptoms.Items == nil {
		log.Symptoms.Items = []risk.Symptom{}
	}

	assessment := &StoredAssessment{
		ID:          uuid.NewString(),
		HealthLogID: log.ID,
		CreatedAt:   now,
		Assessment:  s.engine.Assess(log.Input(), profile),
	}
	span.SetAttributes(
		attribute.String("risk.level", string(assessment.RiskLevel)),
		attribute.Int("risk.red_flags", len(assessment.RedFlags)),
	)

	if err := s.repo.Create(ctx, log, assessment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		return nil, fmt.Errorf("healthlog: submit: %w", err)
	}

	s.metrics.ObserveAssessment(string(assessment.RiskLevel), assessment.RuleVersion, len(assessment.RedFlags))
	if s.audit != nil {
		if err := s.audit.LogAssessmentCreated(ctx, log.UserID, log.ID, assessment.Assessment); err != nil {
			s.logger.Warn("failed to audit assessment", "error", err, "health_log_id", log.ID)
		}
	}

	s.logger.Info("health log assessed",
		"health_log_id", log.ID,
		"user_id", log.UserID,
		"risk_level", assessment.RiskLevel,
		"symptoms", len(log.Symptoms.Items),
	)

	return &Entry{Log: *log, Assessment: *assessment}, nil
}

// Get returns one of the user's logs.
func (s *Service) Get(ctx context.Context, userID, id string) (*Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the user's most recent logs, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// loadProfile never fails the submission; a missing profile only means no
// age or chronic-condition adjustment.
func (s *Service) loadProfile(ctx context.Context, userID string) *risk.UserProfile {
	if s.profiles == nil {
		return nil
	}
	profile, err := s.profiles.ProfileFor(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user profile, assessing without it", "error", err, "user_id", userID)
		return nil
	}
	return profile
}
