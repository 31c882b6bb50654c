package service

import (
	"context"
	"io"

	"gramly/internal/media"
	"gramly/internal/models"
	"gramly/internal/repository"
)

type ProfileService struct {
	userRepo repository.UserRepository
	media    media.Store
}

func NewProfileService(userRepo repository.UserRepository, mediaStore media.Store) *ProfileService {
	return &ProfileService{userRepo: userRepo, media: mediaStore}
}

func (s *ProfileService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ViewProfile returns a user together with their recent posts.
func (s *ProfileService) ViewProfile(ctx context.Context, id uint, postLimit int) (*models.User, error) {
	return s.userRepo.GetByIDWithPosts(ctx, id, postLimit)
}

// UpdateProfileInput carries a profile edit. A nil Avatar keeps the
// current picture.
type UpdateProfileInput struct {
	UserID      uint
	Firstname   string
	Lastname    string
	Bio         string
	Gender      string
	ContentType string
	Avatar      io.Reader
	AvatarSize  int64
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 50

	if in.Firstname != "" {
		if len(in.Firstname) > maxNameLen {
			return nil, models.NewValidationError("First name too long (max 50 characters)")
		}
		user.Firstname = in.Firstname
	}
	if in.Lastname != "" {
		if len(in.Lastname) > maxNameLen {
			return nil, models.NewValidationError("Last name too long (max 50 characters)")
		}
		user.Lastname = in.Lastname
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Gender != "" {
		user.Gender = in.Gender
	}
	if in.Avatar != nil {
		url, err := s.media.Save(ctx, in.ContentType, in.Avatar, in.AvatarSize)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = url
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
