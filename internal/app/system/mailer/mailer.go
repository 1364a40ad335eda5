// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("mailer: smtp host or sender not configured")

const sendTimeout = 30 * time.Second

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Email is one message. At least one of TextBody and HTMLBody should be set.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends mail through one SMTP relay.
type Mailer struct {
	cfg    Config
	logger *zap.Logger

	// deliver dials the relay and hands over msg; tests replace it.
	deliver func(ctx context.Context, msg *mail.Msg) error
}

func New(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	m := &Mailer{cfg: cfg, logger: logger}
	m.deliver = m.dialAndSend
	return m
}

// Configured reports whether Send can deliver anything.
func (m *Mailer) Configured() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.From != ""
}

// Send delivers e. PLAIN auth is used when a user is configured.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(e.To) == "" {
		return errors.New("mailer: empty recipient")
	}

	msg, err := m.message(e)
	if err != nil {
		return err
	}
	if err := m.deliver(ctx, msg); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	m.logger.Debug("email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// message renders e, as multipart/alternative when both bodies are set.
func (m *Mailer) message(e Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	var err error
	if m.cfg.FromName != "" {
		err = msg.FromFormat(m.cfg.FromName, m.cfg.From)
	} else {
		err = msg.From(m.cfg.From)
	}
	if err != nil {
		return nil, fmt.Errorf("mailer: sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("mailer: recipient %q: %w", e.To, err)
	}
	msg.Subject(e.Subject)
	msg.SetDate()
	msg.SetMessageID()

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextPlain, e.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, e.HTMLBody)
	case e.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, e.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, e.TextBody)
	}
	return msg, nil
}

func (m *Mailer) authType() mail.SMTPAuthType {
	if m.cfg.User == "" {
		return mail.SMTPAuthNoAuth
	}
	return mail.SMTPAuthPlain
}

func (m *Mailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(sendTimeout),
		mail.WithSMTPAuth(m.authType()),
	}
	if m.cfg.User != "" {
		opts = append(opts, mail.WithUsername(m.cfg.User), mail.WithPassword(m.cfg.Pass))
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	c, err := m.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}
