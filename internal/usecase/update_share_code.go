package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// UpdateShareCodeInput contains the parameters for choosing a share code.
type UpdateShareCodeInput struct {
	Code int // New code (>= 1, unused by any other user)
}

// UpdateShareCode is the use case for replacing the actor's share code.
type UpdateShareCode struct {
	sharing domain.SharingStore
	logger  domain.Logger
	actor   string
}

// NewUpdateShareCode creates a new UpdateShareCode use case.
func NewUpdateShareCode(sharing domain.SharingStore, actor string, logger domain.Logger) *UpdateShareCode {
	return &UpdateShareCode{sharing: sharing, actor: actor, logger: logger}
}

// Execute sets the code. Returns ErrShareCodeTaken when another user holds it.
func (uc *UpdateShareCode) Execute(ctx context.Context, in UpdateShareCodeInput) error {
	if uc.sharing == nil {
		return domain.ErrSharingUnavailable
	}
	if err := domain.ValidateShareCode(in.Code); err != nil {
		return err
	}

	if err := uc.sharing.Directory().SetShareCode(ctx, uc.actor, in.Code); err != nil {
		return fmt.Errorf("set share code: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("profile", fmt.Sprintf("share code of %s set to %d", uc.actor, in.Code))
	}
	return nil
}
