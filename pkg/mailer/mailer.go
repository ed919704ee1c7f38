package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/escala-acolitos/escala-api/pkg/config"
)

// Mailer delivers a single message to one recipient. Delivery is synchronous
// and fail-fast; callers decide whether a failure is fatal.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds a mailer from SMTP configuration.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one plain-text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// Noop discards all messages. Used when SMTP is disabled in config.
type Noop struct{}

// Send implements Mailer.
func (Noop) Send(to, subject, body string) error { return nil }

// FromConfig returns an SMTP mailer when enabled, a no-op otherwise.
func FromConfig(cfg config.SMTPConfig) Mailer {
	if !cfg.Enabled {
		return Noop{}
	}
	return NewSMTP(cfg)
}
