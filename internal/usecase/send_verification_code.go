package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// SendVerificationCodeInput contains the parameters for mailing a code.
type SendVerificationCodeInput struct {
	To   string // Empty = the actor's profile e-mail
	Name string // Greeting name; empty = the profile name
}

// SendVerificationCodeOutput contains the code that was sent, so the caller
// can compare it with what the user types.
type SendVerificationCodeOutput struct {
	To   string
	Code string
}

// SendVerificationCode mails a six-digit code that expires in 15 minutes.
type SendVerificationCode struct {
	mailer  domain.Mailer
	sharing domain.SharingStore
	newCode func() (string, error)
	logger  domain.Logger
	actor   string
}

// NewSendVerificationCode creates a new SendVerificationCode use case.
// mailer is nil when mail is not configured; sharing is nil in local mode.
func NewSendVerificationCode(mailer domain.Mailer, sharing domain.SharingStore, actor string, logger domain.Logger) *SendVerificationCode {
	return &SendVerificationCode{
		mailer:  mailer,
		sharing: sharing,
		newCode: GenerateVerificationCode,
		actor:   actor,
		logger:  logger,
	}
}

// WithCodeGenerator replaces the code source.
func (uc *SendVerificationCode) WithCodeGenerator(fn func() (string, error)) *SendVerificationCode {
	uc.newCode = fn
	return uc
}

// Execute generates and mails the code.
func (uc *SendVerificationCode) Execute(ctx context.Context, in SendVerificationCodeInput) (*SendVerificationCodeOutput, error) {
	if uc.mailer == nil {
		return nil, domain.ErrMailerNotConfigured
	}

	to, name := strings.TrimSpace(in.To), strings.TrimSpace(in.Name)
	if (to == "" || name == "") && uc.sharing != nil && uc.actor != "" {
		p, err := uc.sharing.Directory().Get(ctx, uc.actor)
		switch {
		case err == nil:
			if to == "" {
				to = p.Email
			}
			if name == "" {
				name = p.Name
			}
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("get profile: %w", err)
		}
	}
	if to == "" {
		return nil, domain.ErrNoEmail
	}
	if name == "" {
		name, _, _ = strings.Cut(to, "@")
	}

	code, err := uc.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	mail := domain.Mail{
		To:      to,
		Subject: "HTS verification code",
		Body: fmt.Sprintf("Hello %s,\n\nYour verification code is:\n\n    %s\n\n"+
			"This code will expire in 15 minutes.\n"+
			"If you did not request this code, please ignore this email.\n", name, code),
	}
	if err := uc.mailer.Send(ctx, mail); err != nil {
		if uc.logger != nil {
			uc.logger.Error("profile", fmt.Sprintf("send verification code to %s: %v", to, err))
		}
		return nil, fmt.Errorf("send verification code: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("profile", "verification code sent to "+to)
	}
	return &SendVerificationCodeOutput{To: to, Code: code}, nil
}

// GenerateVerificationCode returns a random code in [100000, 999999].
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", 100000+n.Int64()), nil
}
