package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/hts-group/hts-tasks/internal/domain"
)

type recordingSender struct {
	err  error
	sent []*gomail.Message
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m...)
	return nil
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(domain.SMTPConfig{Host: "smtp.example.com"})

	assert.ErrorIs(t, err, domain.ErrMailerNotConfigured)
}

func TestNew_Configured(t *testing.T) {
	m, err := New(domain.SMTPConfig{Host: "smtp.example.com", From: "hts@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "hts@example.com", m.from)
}

func TestSMTP_Send(t *testing.T) {
	// Setup
	sender := &recordingSender{}
	m := NewWithSender(sender, "hts@example.com")

	// Execute
	err := m.Send(context.Background(), domain.Mail{
		To:             "alice@example.com",
		Subject:        "Backup",
		Body:           "attached",
		AttachmentName: "backup.json",
		Attachment:     []byte(`{"tasks":[]}`),
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"hts@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Backup"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `filename="backup.json"`)
}

func TestSMTP_Send_Error(t *testing.T) {
	m := NewWithSender(&recordingSender{err: assert.AnError}, "hts@example.com")

	err := m.Send(context.Background(), domain.Mail{To: "alice@example.com"})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestSMTP_Send_Canceled(t *testing.T) {
	sender := &recordingSender{}
	m := NewWithSender(sender, "hts@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, domain.Mail{To: "alice@example.com"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
