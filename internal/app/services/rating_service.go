package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/monitoring"
)

// DefaultRatingTTL bounds how long a cached average may be served
const DefaultRatingTTL = 5 * time.Minute

func ratingCacheKey(courseID int64) string {
	return fmt.Sprintf("course:%d:rating", courseID)
}

// RatingService handles course ratings
type RatingService struct {
	ratingRepo RatingStore
	courseRepo CourseStore
	cache      FloatCache
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewRatingService creates a new RatingService. A nil cache disables caching.
func NewRatingService(ratingRepo RatingStore, courseRepo CourseStore, cache FloatCache, ttl time.Duration, logger zerolog.Logger) *RatingService {
	if cache == nil {
		cache = noopCache{}
	}
	if ttl <= 0 {
		ttl = DefaultRatingTTL
	}
	return &RatingService{
		ratingRepo: ratingRepo,
		courseRepo: courseRepo,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

// Rate stores the caller's rating for a course and returns the new average
func (s *RatingService) Rate(ctx context.Context, callerID, courseID int64, req *dto.RateRequest) (*dto.RateResponse, error) {
	if req.UserID != callerID {
		return nil, apperrors.NewForbiddenError("cannot rate on behalf of another user")
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, apperrors.NewValidationError(fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	avg, err := s.ratingRepo.Upsert(ctx, courseID, req.UserID, req.Rating)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetFloat(ctx, ratingCacheKey(courseID), avg, s.ttl); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to refresh cached rating")
	}
	monitoring.CommunityActions.WithLabelValues("rate").Inc()

	return &dto.RateResponse{
		Message:       "Rating submitted successfully!",
		AverageRating: avg,
	}, nil
}

// GetRating returns a course's average rating, 0 when unrated. Cache errors fall through to the store.
// A miss only fills an empty key so it cannot overwrite the value a concurrent Rate wrote.
func (s *RatingService) GetRating(ctx context.Context, courseID int64) (float64, error) {
	key := ratingCacheKey(courseID)
	if avg, ok, err := s.cache.GetFloat(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Rating cache read failed")
	} else if ok {
		return avg, nil
	}

	avg, err := s.ratingRepo.Average(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if _, err := s.cache.SetFloatIfAbsent(ctx, key, avg, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Rating cache write failed")
	}
	return avg, nil
}
