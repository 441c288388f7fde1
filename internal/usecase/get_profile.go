package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// GetProfileInput contains the parameters for reading a profile.
type GetProfileInput struct {
	UID string // Empty = the actor
}

// GetProfileOutput contains the profile.
type GetProfileOutput struct {
	Profile *domain.Profile
}

// GetProfile is the use case for reading a directory entry.
type GetProfile struct {
	sharing domain.SharingStore
	actor   string
}

// NewGetProfile creates a new GetProfile use case.
func NewGetProfile(sharing domain.SharingStore, actor string) *GetProfile {
	return &GetProfile{sharing: sharing, actor: actor}
}

// Execute reads the profile.
func (uc *GetProfile) Execute(ctx context.Context, in GetProfileInput) (*GetProfileOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	uid := in.UID
	if uid == "" {
		uid = uc.actor
	}
	if uid == "" {
		return nil, domain.ErrNoSession
	}

	p, err := uc.sharing.Directory().Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &GetProfileOutput{Profile: p}, nil
}
