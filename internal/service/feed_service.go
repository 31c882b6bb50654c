package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"gramly/internal/media"
	"gramly/internal/models"
	"gramly/internal/repository"
)

// FeedService provides post, feed and engagement business logic.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
	media       media.Store
}

// NewFeedService returns a new FeedService.
func NewFeedService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, followRepo repository.FollowRepository, mediaStore media.Store) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		media:       mediaStore,
	}
}

// HomeFeed returns posts authored by the users userID follows, most recent
// activity first. Following nobody yields an empty feed, not an error.
func (s *FeedService) HomeFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	followeeIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByAuthorIDs(ctx, followeeIDs, limit, offset, userID)
}

// PublishInput carries a new post.
type PublishInput struct {
	UserID      uint
	Caption     string
	ContentType string
	Image       io.Reader
	ImageSize   int64
}

// Publish stores the image and creates the post.
func (s *FeedService) Publish(ctx context.Context, in PublishInput) (*models.Post, error) {
	if in.Image == nil {
		return nil, models.NewValidationError("Image is required")
	}
	if strings.TrimSpace(in.Caption) == "" {
		return nil, models.NewValidationError("Caption is required")
	}

	url, err := s.media.Save(ctx, in.ContentType, in.Image, in.ImageSize)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Caption:  in.Caption,
		ImageURL: url,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePostInput carries a post edit. A nil Image keeps the current one.
type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Caption     string
	ContentType string
	Image       io.Reader
	ImageSize   int64
}

// UpdatePost edits a post the caller owns. The edit refreshes the activity
// timestamp, resurfacing the post in followers' feeds.
func (s *FeedService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if strings.TrimSpace(in.Caption) != "" {
		post.Caption = in.Caption
	}
	if in.Image != nil {
		url, err := s.media.Save(ctx, in.ContentType, in.Image, in.ImageSize)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post the caller owns, together with its comments.
func (s *FeedService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.commentRepo.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// UserPosts lists a user's posts, most recent activity first.
func (s *FeedService) UserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// Like records a like. Liking twice or liking a vanished post changes nothing.
func (s *FeedService) Like(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// Unlike removes a like. Absent likes and vanished posts change nothing.
func (s *FeedService) Unlike(ctx context.Context, userID, postID uint) error {
	return s.postRepo.Unlike(ctx, userID, postID)
}

// Comment appends a comment to a post. Duplicate bodies are allowed. A
// vanished post swallows the comment without error.
func (s *FeedService) Comment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		UserID:  userID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments lists a post's comments in the order they were written.
func (s *FeedService) Comments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == "NOT_FOUND"
}
