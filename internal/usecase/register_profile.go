package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// RegisterProfileInput contains the parameters for registering the actor.
// Fields are ordered to minimize memory padding.
type RegisterProfileInput struct {
	Name     string // Display name (required)
	Email    string // Contact and backup address (required)
	Company  string
	Position string
}

// RegisterProfileOutput contains the registered profile.
type RegisterProfileOutput struct {
	Profile *domain.Profile
}

// RegisterProfile is the use case for adding the actor to the user directory.
// The directory assigns the next share code from its counter.
type RegisterProfile struct {
	sharing domain.SharingStore
	clock   domain.Clock
	logger  domain.Logger
	actor   string
}

// NewRegisterProfile creates a new RegisterProfile use case.
func NewRegisterProfile(sharing domain.SharingStore, actor string, clock domain.Clock, logger domain.Logger) *RegisterProfile {
	return &RegisterProfile{
		sharing: sharing,
		actor:   actor,
		clock:   clock,
		logger:  logger,
	}
}

// Execute registers the profile.
func (uc *RegisterProfile) Execute(ctx context.Context, in RegisterProfileInput) (*RegisterProfileOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	if uc.actor == "" {
		return nil, domain.ErrNoSession
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %q", in.Email)
	}

	p := &domain.Profile{
		UID:       uc.actor,
		Name:      name,
		Email:     email,
		Company:   strings.TrimSpace(in.Company),
		Position:  strings.TrimSpace(in.Position),
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.sharing.Directory().Register(ctx, p); err != nil {
		return nil, fmt.Errorf("register profile: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("profile", fmt.Sprintf("registered %s with share code %d", p.UID, p.ShareCode))
	}
	return &RegisterProfileOutput{Profile: p}, nil
}
