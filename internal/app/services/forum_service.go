package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/monitoring"
)

// ForumService handles course discussion boards
type ForumService struct {
	forumRepo  ForumStore
	courseRepo CourseStore
	logger     zerolog.Logger
}

// NewForumService creates a new ForumService
func NewForumService(forumRepo ForumStore, courseRepo CourseStore, logger zerolog.Logger) *ForumService {
	return &ForumService{
		forumRepo:  forumRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// ListPosts returns a course's posts, newest first
func (s *ForumService) ListPosts(ctx context.Context, courseID int64) ([]models.ForumPost, error) {
	return s.forumRepo.ListPosts(ctx, courseID)
}

// CreatePost adds a post by the caller to a course
func (s *ForumService) CreatePost(ctx context.Context, callerID, courseID int64, req *dto.CreatePostRequest) (*models.ForumPost, error) {
	if req.UserID != callerID {
		return nil, apperrors.NewForbiddenError("cannot post on behalf of another user")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	post, err := s.forumRepo.CreatePost(ctx, courseID, callerID, content)
	if err != nil {
		return nil, err
	}
	monitoring.CommunityActions.WithLabelValues("post").Inc()
	return post, nil
}

// Upvote adds the caller's single vote to a post
func (s *ForumService) Upvote(ctx context.Context, callerID, courseID, postID int64) (*dto.UpvoteResponse, error) {
	post, err := s.forumRepo.Upvote(ctx, courseID, postID, callerID)
	if err != nil {
		return nil, err
	}
	monitoring.CommunityActions.WithLabelValues("upvote").Inc()
	return &dto.UpvoteResponse{Upvotes: post.Upvotes, Post: post}, nil
}
