package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// MaxPhotoSize is the largest accepted profile photo in bytes.
const MaxPhotoSize = 5 << 20

// SetProfilePhotoInput contains the parameters for uploading a photo.
type SetProfilePhotoInput struct {
	ContentType string // Sniffed from Data when empty
	Data        []byte
}

// SetProfilePhotoOutput contains the URL the photo is served under.
type SetProfilePhotoOutput struct {
	URL string
}

// SetProfilePhoto stores the actor's photo and points the profile at it.
type SetProfilePhoto struct {
	sharing domain.SharingStore
	logger  domain.Logger
	actor   string
}

// NewSetProfilePhoto creates a new SetProfilePhoto use case.
func NewSetProfilePhoto(sharing domain.SharingStore, actor string, logger domain.Logger) *SetProfilePhoto {
	return &SetProfilePhoto{sharing: sharing, actor: actor, logger: logger}
}

// Execute uploads the photo.
func (uc *SetProfilePhoto) Execute(ctx context.Context, in SetProfilePhotoInput) (*SetProfilePhotoOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	if len(in.Data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if len(in.Data) > MaxPhotoSize {
		return nil, fmt.Errorf("photo too large: %d bytes (max %d)", len(in.Data), MaxPhotoSize)
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(in.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("photo must be an image, got %s", contentType)
	}

	dir := uc.sharing.Directory()
	p, err := dir.Get(ctx, uc.actor)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	url, err := uc.sharing.Photos().PutPhoto(ctx, uc.actor, contentType, in.Data)
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}
	p.PhotoURL = url
	if err := dir.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("profile", fmt.Sprintf("photo of %s updated (%d bytes)", uc.actor, len(in.Data)))
	}
	return &SetProfilePhotoOutput{URL: url}, nil
}

// GetProfilePhotoInput contains the parameters for reading a photo.
type GetProfilePhotoInput struct {
	UID string // Empty = the actor
}

// GetProfilePhotoOutput contains the photo bytes.
type GetProfilePhotoOutput struct {
	ContentType string
	Data        []byte
}

// GetProfilePhoto reads a user's photo.
type GetProfilePhoto struct {
	sharing domain.SharingStore
	actor   string
}

// NewGetProfilePhoto creates a new GetProfilePhoto use case.
func NewGetProfilePhoto(sharing domain.SharingStore, actor string) *GetProfilePhoto {
	return &GetProfilePhoto{sharing: sharing, actor: actor}
}

// Execute reads the photo. Returns ErrUserNotFound when none is stored.
func (uc *GetProfilePhoto) Execute(ctx context.Context, in GetProfilePhotoInput) (*GetProfilePhotoOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	uid := in.UID
	if uid == "" {
		uid = uc.actor
	}
	data, contentType, err := uc.sharing.Photos().GetPhoto(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return &GetProfilePhotoOutput{ContentType: contentType, Data: data}, nil
}
