package compliance

import (
	"context"
	"fmt"
	"strings"
)

// DisclaimerLevel represents the verbosity of the disclaimer.
type DisclaimerLevel string

const (
	DisclaimerNone     DisclaimerLevel = "none"
	DisclaimerShort    DisclaimerLevel = "short"
	DisclaimerStandard DisclaimerLevel = "standard"
	DisclaimerFull     DisclaimerLevel = "full"
)

// Disclaimer templates
const (
	disclaimerShortText = "General health information only. Not medical advice."

	disclaimerStandardText = "This is general health information, not medical advice. Please talk to a healthcare provider about your situation. In an emergency, call 911."

	disclaimerFullText = "HealthGuard provides general health and wellness information only. It does not diagnose conditions, recommend treatments, or replace the judgement of a licensed healthcare provider. Always consult a qualified professional about symptoms or medications. If you think you are having a medical emergency, call 911 immediately."
)

// DisclaimerConfig configures the disclaimer service.
type DisclaimerConfig struct {
	Level DisclaimerLevel
	// FirstMessageOnly adds the disclaimer only to the first reply of a conversation.
	FirstMessageOnly bool
	CustomText       string
}

// ParseDisclaimerLevel maps a config string to a level, defaulting to standard.
func ParseDisclaimerLevel(raw string) DisclaimerLevel {
	switch DisclaimerLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case DisclaimerNone:
		return DisclaimerNone
	case DisclaimerShort:
		return DisclaimerShort
	case DisclaimerFull:
		return DisclaimerFull
	default:
		return DisclaimerStandard
	}
}

// DisclaimerService appends the not-medical-advice footer to assistant replies.
type DisclaimerService struct {
	audit  *AuditService
	config DisclaimerConfig
}

// NewDisclaimerService creates a new disclaimer service. audit may be nil.
func NewDisclaimerService(audit *AuditService, config DisclaimerConfig) *DisclaimerService {
	if config.Level == "" {
		config.Level = DisclaimerStandard
	}
	return &DisclaimerService{
		audit:  audit,
		config: config,
	}
}

// Text returns the configured disclaimer, empty when disabled.
func (s *DisclaimerService) Text() string {
	if s.config.CustomText != "" {
		return s.config.CustomText
	}

	switch s.config.Level {
	case DisclaimerNone:
		return ""
	case DisclaimerShort:
		return disclaimerShortText
	case DisclaimerFull:
		return disclaimerFullText
	default:
		return disclaimerStandardText
	}
}

// DisclaimerOptions provides context for disclaimer addition.
type DisclaimerOptions struct {
	UserID         string
	ConversationID string
	IsFirstMessage bool
}

// AddDisclaimer appends the disclaimer to message unless disabled or already present.
func (s *DisclaimerService) AddDisclaimer(ctx context.Context, message string, opts DisclaimerOptions) string {
	if s == nil {
		return message
	}
	if s.config.FirstMessageOnly && !opts.IsFirstMessage {
		return message
	}

	disclaimer := s.Text()
	if disclaimer == "" || strings.Contains(message, disclaimer) {
		return message
	}

	result := fmt.Sprintf("%s\n\n%s", strings.TrimSpace(message), disclaimer)

	if s.audit != nil && opts.UserID != "" {
		_ = s.audit.LogDisclaimerSent(ctx, opts.UserID, opts.ConversationID, string(s.config.Level))
	}

	return result
}
