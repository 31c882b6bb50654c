package service

import (
	"context"

	"gramly/internal/models"
	"gramly/internal/repository"
)

// GraphService provides follow-graph business logic.
type GraphService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewGraphService returns a new GraphService.
func NewGraphService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *GraphService {
	return &GraphService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow adds userID to targetID's followers. Following again is a no-op.
func (s *GraphService) Follow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewForbiddenError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Create(ctx, userID, targetID)
}

// Unfollow removes the edge. Unfollowing someone not followed is a no-op,
// but the target must exist.
func (s *GraphService) Unfollow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewForbiddenError("Cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, userID, targetID)
}

// Followers lists the users following userID.
func (s *GraphService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// Following lists the users userID follows.
func (s *GraphService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}

// Suggestions lists verified accounts the user might want to follow: every
// verified user except the caller and anyone already following the caller.
func (s *GraphService) Suggestions(ctx context.Context, userID uint) ([]models.User, error) {
	verified, err := s.userRepo.ListVerified(ctx)
	if err != nil {
		return nil, err
	}

	followerIDs, err := s.followRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := make(map[uint]struct{}, len(followerIDs)+1)
	exclude[userID] = struct{}{}
	for _, id := range followerIDs {
		exclude[id] = struct{}{}
	}

	suggestions := make([]models.User, 0, len(verified))
	for _, u := range verified {
		if _, skip := exclude[u.ID]; skip {
			continue
		}
		suggestions = append(suggestions, u)
	}
	return suggestions, nil
}
