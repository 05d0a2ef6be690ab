package sos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/healthguard/internal/observability/metrics"
	"github.com/wolfman30/healthguard/internal/safety"
	"github.com/wolfman30/healthguard/pkg/logging"
)

var tracer = otel.Tracer("healthguard.internal.sos")

// Alert is one escalation that should reach the user's contacts.
type Alert struct {
	UserID         string
	UserName       string
	ConversationID string
	Context        safety.EmergencyContext
}

// Dispatch summarizes what Trigger did.
type Dispatch struct {
	Notified   int  `json:"notified"`
	Failed     int  `json:"failed"`
	Suppressed bool `json:"suppressed"`
}

// Service fans an alert out to every emergency contact of the user.
type Service struct {
	contacts ContactSource
	sender   EmailSender
	cooldown Cooldown
	metrics  *metrics.SOSMetrics
	logger   *logging.Logger
}

// NewService wires the dispatcher. cooldown and m may be nil.
func NewService(contacts ContactSource, sender EmailSender, cooldown Cooldown, m *metrics.SOSMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if contacts == nil {
		contacts = StaticContacts{}
	}
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	return &Service{
		contacts: contacts,
		sender:   sender,
		cooldown: cooldown,
		metrics:  m,
		logger:   logger,
	}
}

// Trigger notifies contacts unless the user is inside the cooldown window.
// A failing cooldown store does not block the alert.
func (s *Service) Trigger(ctx context.Context, alert Alert) (Dispatch, error) {
	ctx, span := tracer.Start(ctx, "sos.trigger")
	defer span.End()
	span.SetAttributes(
		attribute.String("healthguard.user_id", alert.UserID),
		attribute.String("sos.emergency_type", string(alert.Context.Type)),
	)

	if strings.TrimSpace(alert.UserID) == "" {
		return Dispatch{}, ErrMissingUser
	}

	if s.cooldown != nil {
		acquired, err := s.cooldown.Acquire(ctx, alert.UserID)
		switch {
		case err != nil:
			s.logger.Warn("sos cooldown unavailable, sending anyway", "error", err, "user_id", alert.UserID)
		case !acquired:
			s.logger.Info("sos suppressed by cooldown", "user_id", alert.UserID)
			s.metrics.ObserveDispatch("suppressed")
			span.SetAttributes(attribute.Bool("sos.suppressed", true))
			return Dispatch{Suppressed: true}, nil
		}
	}

	contacts, err := s.contacts.ContactsFor(ctx, alert.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load contacts")
		return Dispatch{}, fmt.Errorf("sos: load contacts: %w", err)
	}
	if len(contacts) == 0 {
		s.logger.Warn("sos triggered but user has no emergency contacts", "user_id", alert.UserID)
		s.metrics.ObserveDispatch("no_contacts")
		return Dispatch{}, nil
	}

	var (
		result Dispatch
		errs   []error
	)
	for _, contact := range contacts {
		if err := s.sender.Send(ctx, buildAlertEmail(contact, alert)); err != nil {
			result.Failed++
			errs = append(errs, err)
			s.metrics.ObserveDispatch("failed")
			continue
		}
		result.Notified++
		s.metrics.ObserveDispatch("sent")
	}
	span.SetAttributes(
		attribute.Int("sos.notified", result.Notified),
		attribute.Int("sos.failed", result.Failed),
	)

	s.logger.Info("sos dispatched",
		"user_id", alert.UserID,
		"emergency_type", alert.Context.Type,
		"notified", result.Notified,
		"failed", result.Failed,
	)

	if result.Notified == 0 {
		err := fmt.Errorf("sos: no contact could be notified: %w", errors.Join(errs...))
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		return result, err
	}
	return result, nil
}

func buildAlertEmail(contact Contact, alert Alert) EmailMessage {
	who := alert.UserName
	if who == "" {
		who = "A HealthGuard user who listed you as an emergency contact"
	}
	at := alert.Context.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", greetingName(contact))
	fmt.Fprintf(&b, "%s may be having a medical emergency.\n\n", who)
	fmt.Fprintf(&b, "Type: %s\nSeverity: %s\nTime: %s\n", humanType(alert.Context.Type), alert.Context.Severity, at.UTC().Format(time.RFC1123))
	if len(alert.Context.DetectedKeywords) > 0 {
		fmt.Fprintf(&b, "Signs reported: %s\n", strings.Join(alert.Context.DetectedKeywords, ", "))
	}
	b.WriteString("\nPlease try to reach them right away. If you cannot reach them and believe they are in danger, call 911.\n")

	return EmailMessage{
		To:            contact.Email,
		ToName:        contact.Name,
		Subject:       fmt.Sprintf("Emergency alert: %s", humanType(alert.Context.Type)),
		Text:          b.String(),
		EmergencyType: string(alert.Context.Type),
	}
}

func greetingName(c Contact) string {
	if c.Name != "" {
		return c.Name
	}
	return "there"
}

func humanType(t safety.EmergencyType) string {
	switch t {
	case safety.EmergencyCardiac:
		return "possible cardiac emergency"
	case safety.EmergencyStroke:
		return "possible stroke"
	case safety.EmergencyBreathing:
		return "breathing emergency"
	case safety.EmergencyAllergic:
		return "severe allergic reaction"
	case safety.EmergencyMentalHealth:
		return "mental health crisis"
	default:
		return "medical emergency"
	}
}
