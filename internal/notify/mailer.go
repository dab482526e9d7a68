// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers the digest by email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// DefaultSMTPPort is used when the configured port is zero.
const DefaultSMTPPort = 587

const defaultSubjectPrefix = "arxiv-daily"

var (
	// ErrNoSender means EMAIL_SENDER is unset.
	ErrNoSender = errors.New("email sender is not configured")
	// ErrNoReceivers means EMAIL_RECEIVERS has no addresses.
	ErrNoReceivers = errors.New("email receivers are not configured")
	// ErrNoServer means SMTP_SERVER is unset.
	ErrNoServer = errors.New("SMTP server is not configured")
)

// Sender delivers composed messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Dialer builds a Sender for host. mail.NewClient is the production dialer;
// tests substitute a recorder.
type Dialer func(host string, opts ...mail.Option) (Sender, error)

func dialSMTP(host string, opts ...mail.Option) (Sender, error) {
	return mail.NewClient(host, opts...)
}

// Mailer sends one message per run with the digest files attached.
type Mailer struct {
	cfg      types.EmailConfig
	project  string
	password string
	timezone string
	now      func() time.Time
	dial     Dialer
	log      *slog.Logger
}

// NewMailer returns a Mailer for the configured relay. password may be empty
// when the relay needs no authentication.
func NewMailer(meta types.ProjectMeta, cfg types.AppConfig, password string, log *slog.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg.Email,
		project:  meta.Name,
		password: password,
		timezone: cfg.Timezone,
		now:      time.Now,
		dial:     dialSMTP,
		log:      log,
	}
}

// Receivers splits the comma-separated receiver list, dropping blanks.
func Receivers(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Subject returns the message subject for date.
func (m *Mailer) Subject(date string) string {
	prefix := m.project
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	return prefix + " digest " + date
}

// Compose builds the message without sending it.
func (m *Mailer) Compose(attachments []string) (*mail.Msg, error) {
	if m.cfg.Sender == "" {
		return nil, ErrNoSender
	}
	to := Receivers(m.cfg.Receivers)
	if len(to) == 0 {
		return nil, ErrNoReceivers
	}

	date, err := m.today()
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return nil, fmt.Errorf("setting sender %q: %w", m.cfg.Sender, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("setting receivers: %w", err)
	}
	msg.Subject(m.Subject(date))
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, body(date, attachments))
	for _, path := range attachments {
		msg.AttachFile(path)
	}
	return msg, nil
}

// Send composes and delivers the message through the configured relay.
func (m *Mailer) Send(ctx context.Context, attachments []string) error {
	if m.cfg.SMTPServer == "" {
		return ErrNoServer
	}
	msg, err := m.Compose(attachments)
	if err != nil {
		return err
	}

	port := m.cfg.SMTPPort
	if port == 0 {
		port = DefaultSMTPPort
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTPUsername),
			mail.WithPassword(m.password),
		)
	}

	client, err := m.dial(m.cfg.SMTPServer, opts...)
	if err != nil {
		return fmt.Errorf("creating SMTP client for %s: %w", m.cfg.SMTPServer, err)
	}

	m.log.Info("sending email", "server", m.cfg.SMTPServer, "port", port, "receivers", m.cfg.Receivers, "attachments", len(attachments))
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email via %s:%d: %w", m.cfg.SMTPServer, port, err)
	}
	m.log.Info("email sent")
	return nil
}

func (m *Mailer) today() (string, error) {
	loc, err := types.AppConfig{Timezone: m.timezone}.Location()
	if err != nil {
		return "", err
	}
	return m.now().In(loc).Format(time.DateOnly), nil
}

func body(date string, attachments []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommended arXiv papers for %s.\n", date)
	if len(attachments) > 0 {
		b.WriteString("\nAttached:\n")
		for _, a := range attachments {
			fmt.Fprintf(&b, "- %s\n", filepath.Base(a))
		}
	}
	return b.String()
}
