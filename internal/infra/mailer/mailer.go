// Package mailer delivers mail over SMTP.
package mailer

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Ensure SMTP implements domain.Mailer.
var _ domain.Mailer = (*SMTP)(nil)

// Sender dials the server and sends composed messages.
// gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP sends mail through a configured relay.
type SMTP struct {
	sender Sender
	from   string
}

// New creates an SMTP mailer from configuration.
// Returns domain.ErrMailerNotConfigured when host or sender address is missing.
func New(cfg domain.SMTPConfig) (*SMTP, error) {
	if !cfg.Enabled() {
		return nil, domain.ErrMailerNotConfigured
	}
	port := cfg.Port
	if port == 0 {
		port = domain.DefaultSMTPPort
	}
	d := gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password)
	return NewWithSender(d, cfg.From), nil
}

// NewWithSender creates an SMTP mailer over an arbitrary sender.
func NewWithSender(sender Sender, from string) *SMTP {
	return &SMTP{sender: sender, from: from}
}

// Send delivers m. The context is checked before dialing; gomail has no
// cancellation of its own.
func (s *SMTP) Send(ctx context.Context, m domain.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.sender == nil {
		return domain.ErrMailerNotConfigured
	}
	if err := s.sender.DialAndSend(Compose(s.from, m)); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}

// Compose builds the gomail message for m.
func Compose(from string, m domain.Mail) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)

	if m.AttachmentName != "" {
		data := m.Attachment
		msg.Attach(m.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return msg
}
