package sos

import (
	"context"
	"strings"

	"github.com/wolfman30/healthguard/pkg/logging"
)

const (
	defaultFromName = "HealthGuard Alerts"
	// alertCategory labels every SOS email in the provider's dashboards.
	alertCategory = "sos-alert"
)

// EmailSender delivers one alert email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one alert addressed to one contact. EmergencyType is
// passed to the provider as a tag so deliveries can be traced per type.
type EmailMessage struct {
	To            string
	ToName        string
	Subject       string
	Text          string
	HTML          string
	EmergencyType string
}

func (m EmailMessage) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrNoRecipient
	}
	return nil
}

// recipientDomain keeps contact addresses out of the logs.
func recipientDomain(to string) string {
	if i := strings.LastIndexByte(to, '@'); i >= 0 {
		return to[i+1:]
	}
	return ""
}

// StubEmailSender logs instead of sending; used when EMAIL_PROVIDER=none.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.logger.Warn("email provider disabled, sos alert not delivered",
		"recipient_domain", recipientDomain(msg.To),
		"emergency_type", msg.EmergencyType,
	)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*SESSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
