package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/healthguard/internal/compliance"
	"github.com/wolfman30/healthguard/internal/observability/metrics"
	"github.com/wolfman30/healthguard/internal/safety"
	"github.com/wolfman30/healthguard/internal/sos"
	"github.com/wolfman30/healthguard/pkg/logging"
)

var tracer = otel.Tracer("healthguard.internal.chat")

const maxMessageRunes = 4000

// SOSDispatcher notifies emergency contacts; *sos.Service satisfies it.
type SOSDispatcher interface {
	Trigger(ctx context.Context, alert sos.Alert) (sos.Dispatch, error)
}

// AuditLogger is the subset of *compliance.AuditService the chat flow writes to.
type AuditLogger interface {
	LogEmergencyEscalated(ctx context.Context, userID, conversationID string, verdict safety.Verdict) error
	LogRequestBlocked(ctx context.Context, userID, conversationID, reason string) error
	LogAIResponseRejected(ctx context.Context, userID, conversationID, reason, rejected string) error
	LogSOSTriggered(ctx context.Context, userID, conversationID string, emergencyType safety.EmergencyType, notified int, suppressed bool) error
}

// ServiceConfig wires the chat flow. Only Store is required.
type ServiceConfig struct {
	Store        Store
	Assistant    Assistant
	Gate         *safety.Gate
	SOS          SOSDispatcher
	Audit        AuditLogger
	Disclaimer   *compliance.DisclaimerService
	Metrics      *metrics.SafetyMetrics
	Logger       *logging.Logger
	HistoryLimit int
}

// Service gates user messages and assistant replies.
type Service struct {
	store        Store
	assistant    Assistant
	gate         *safety.Gate
	sos          SOSDispatcher
	audit        AuditLogger
	disclaimer   *compliance.DisclaimerService
	metrics      *metrics.SafetyMetrics
	logger       *logging.Logger
	historyLimit int
	now          func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil {
		panic("chat: store required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Assistant == nil {
		cfg.Assistant = StubAssistant{}
	}
	if cfg.Gate == nil {
		cfg.Gate = safety.NewGate(nil)
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Service{
		store:        cfg.Store,
		assistant:    cfg.Assistant,
		gate:         cfg.Gate,
		sos:          cfg.SOS,
		audit:        cfg.Audit,
		disclaimer:   cfg.Disclaimer,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		historyLimit: cfg.HistoryLimit,
		now:          time.Now,
	}
}

// Check runs the gate alone, for client-side pre-checks. Nothing is stored.
func (s *Service) Check(message string) safety.Verdict {
	verdict := s.gate.Check(message)
	s.metrics.ObserveVerdict(string(verdict.Result))
	return verdict
}

// Send gates the message, produces the reply and stores both turns.
// Messages that are not allowed never reach the assistant.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	ctx, span := tracer.Start(ctx, "chat.send")
	defer span.End()

	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrMissingUser
	}
	convID := strings.TrimSpace(req.ConversationID)
	if convID == "" {
		convID = uuid.NewString()
	}

	verdict := s.gate.Check(req.Message)
	s.metrics.ObserveVerdict(string(verdict.Result))
	span.SetAttributes(
		attribute.String("healthguard.conversation_id", convID),
		attribute.String("safety.result", string(verdict.Result)),
	)

	logger := s.logger.WithFields("user_id", req.UserID, "conversation_id", convID)
	result := &SendResult{ConversationID: convID, Verdict: verdict}
	userMsg := s.newMessage(req.UserID, convID, RoleUser, req.Message, verdict.Result)
	var replyFlags []string

	switch verdict.Result {
	case safety.ResultEmergencyEscalate:
		result.Reply = safety.GetEmergencyResponse(req.Message)
		replyFlags = append(replyFlags, FlagEmergencyTemplate)
		if ec := verdict.EmergencyContext; ec != nil {
			s.metrics.ObserveEmergency(string(ec.Type), string(ec.Severity), ec.Fallback)
			span.SetAttributes(attribute.String("safety.emergency_type", string(ec.Type)))
		}
		s.auditErr(logger, "emergency", s.auditEmergency(ctx, req.UserID, convID, verdict))
		if verdict.ShouldTriggerSOS {
			result.SOS = s.dispatchSOS(ctx, logger, req.UserID, convID, verdict)
			result.SOSTriggered = result.SOS != nil && result.SOS.Notified > 0
			if result.SOSTriggered {
				userMsg.Flags = append(userMsg.Flags, FlagSOSTriggered)
			}
		}
		logger.Warn("message escalated", "reason", verdict.Reason, "message_length", len(req.Message))

	case safety.ResultBlockUnsafe:
		result.Reply = verdict.SuggestedResponse
		if s.audit != nil {
			s.auditErr(logger, "blocked", s.audit.LogRequestBlocked(ctx, req.UserID, convID, verdict.Reason))
		}
		logger.Info("message blocked", "reason", verdict.Reason)

	default:
		// Only the assistant path is length capped; escalations and blocks
		// are classified whatever the size.
		if utf8.RuneCountInString(req.Message) > maxMessageRunes {
			logger.Info("message rejected", "reason", "too long")
			return nil, fmt.Errorf("%w: limit is %d characters", ErrMessageTooLong, maxMessageRunes)
		}
		history := s.allowedHistory(ctx, logger, req.UserID, convID)
		reply, err := s.askAssistant(ctx, history, req.Message)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "assistant")
			logger.Error("assistant call failed", "error", err)
			s.persist(ctx, logger, userMsg)
			return nil, fmt.Errorf("%w: %v", ErrAssistantFailed, err)
		}

		check := safety.ValidateAIResponse(reply)
		if !check.Safe {
			s.metrics.ObserveRejectedResponse(check.Reason)
			if s.audit != nil {
				s.auditErr(logger, "rejected", s.audit.LogAIResponseRejected(ctx, req.UserID, convID, check.Reason, reply))
			}
			logger.Warn("assistant reply rejected", "reason", check.Reason)
			result.Reply = safety.SafeFallbackResponse
			replyFlags = append(replyFlags, FlagResponseRejected)
		} else {
			result.Reply = s.disclaimer.AddDisclaimer(ctx, reply, compliance.DisclaimerOptions{
				UserID:         req.UserID,
				ConversationID: convID,
				IsFirstMessage: !hasAssistantTurn(history),
			})
			if result.Reply != reply {
				replyFlags = append(replyFlags, FlagDisclaimerAppended)
			}
		}
	}

	replyMsg := s.newMessage(req.UserID, convID, RoleAssistant, result.Reply, verdict.Result)
	replyMsg.Flags = append(replyMsg.Flags, replyFlags...)
	replyMsg.CreatedAt = userMsg.CreatedAt.Add(time.Microsecond)
	s.persist(ctx, logger, userMsg, replyMsg)

	return result, nil
}

// History returns the user's conversation, oldest first.
func (s *Service) History(ctx context.Context, userID, conversationID string, limit int) ([]Message, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, ErrMissingConversation
	}
	return s.store.ListConversation(ctx, userID, conversationID, limit)
}

func (s *Service) newMessage(userID, convID, role, content string, result safety.Result) Message {
	return Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		SafetyResult:   result,
		Flags:          []string{},
		CreatedAt:      s.now().UTC(),
	}
}

// allowedHistory loads prior turns for the assistant. Escalated and blocked
// exchanges are left out so the model never sees them.
func (s *Service) allowedHistory(ctx context.Context, logger *logging.Logger, userID, convID string) []Message {
	msgs, err := s.store.ListConversation(ctx, userID, convID, s.historyLimit)
	if err != nil {
		logger.Warn("failed to load chat history, continuing without it", "error", err)
		return nil
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.SafetyResult == safety.ResultAllow {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) askAssistant(ctx context.Context, history []Message, message string) (string, error) {
	ctx, span := tracer.Start(ctx, "chat.assistant")
	defer span.End()

	start := time.Now()
	reply, err := s.assistant.Reply(ctx, history, message)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ObserveAssistantLatency(outcome, time.Since(start).Seconds())
	return reply, err
}

func (s *Service) auditEmergency(ctx context.Context, userID, convID string, verdict safety.Verdict) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.LogEmergencyEscalated(ctx, userID, convID, verdict)
}

// dispatchSOS never fails the reply; the emergency template is sent regardless.
func (s *Service) dispatchSOS(ctx context.Context, logger *logging.Logger, userID, convID string, verdict safety.Verdict) *sos.Dispatch {
	if s.sos == nil || verdict.EmergencyContext == nil {
		return nil
	}
	dispatch, err := s.sos.Trigger(ctx, sos.Alert{
		UserID:         userID,
		ConversationID: convID,
		Context:        *verdict.EmergencyContext,
	})
	if err != nil {
		logger.Error("sos dispatch failed", "error", err)
	}
	if s.audit != nil {
		s.auditErr(logger, "sos", s.audit.LogSOSTriggered(ctx, userID, convID,
			verdict.EmergencyContext.Type, dispatch.Notified, dispatch.Suppressed))
	}
	return &dispatch
}

// persist stores the turns. A failed write is logged; the reply still goes out.
func (s *Service) persist(ctx context.Context, logger *logging.Logger, messages ...Message) {
	if err := s.store.Append(ctx, messages...); err != nil {
		logger.Error("failed to store chat messages", "error", err)
	}
}

func (s *Service) auditErr(logger *logging.Logger, kind string, err error) {
	if err != nil {
		logger.Warn("failed to write audit event", "kind", kind, "error", err)
	}
}

func hasAssistantTurn(history []Message) bool {
	for _, m := range history {
		if m.Role == RoleAssistant {
			return true
		}
	}
	return false
}
