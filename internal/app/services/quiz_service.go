package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/monitoring"
	"github.com/yigit/learnsphere/internal/pkg/tracing"
	"github.com/yigit/learnsphere/internal/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

// Submission outcomes reported to metrics
const (
	outcomeRecorded      = "recorded"
	outcomeLimitExceeded = "limit_exceeded"
	outcomeRejected      = "rejected"
)

// QuizService handles graded quiz attempts
type QuizService struct {
	submissionRepo SubmissionStore
	enrollmentRepo EnrollmentStore
	courseRepo     CourseStore
	logger         zerolog.Logger
}

// NewQuizService creates a new QuizService
func NewQuizService(submissionRepo SubmissionStore, enrollmentRepo EnrollmentStore, courseRepo CourseStore, logger zerolog.Logger) *QuizService {
	return &QuizService{
		submissionRepo: submissionRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

// Submit records one attempt and makes its score the enrollment's progress. All checks
// run before anything is written; the attempt cap itself is enforced by the store.
func (s *QuizService) Submit(ctx context.Context, callerID int64, req *dto.SubmitQuizRequest) (resp *dto.SubmitQuizResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "QuizService.Submit",
		attribute.Int64("enrollment.id", req.EnrollmentID),
		attribute.Int64("quiz.id", req.QuizID))
	defer func() {
		tracing.EndSpan(span, err)
		switch {
		case err == nil:
			monitoring.QuizSubmissions.WithLabelValues(outcomeRecorded).Inc()
		case errors.Is(err, apperrors.ErrAttemptLimitExceeded):
			monitoring.QuizSubmissions.WithLabelValues(outcomeLimitExceeded).Inc()
		default:
			monitoring.QuizSubmissions.WithLabelValues(outcomeRejected).Inc()
		}
	}()

	if req.UserID != callerID {
		return nil, apperrors.NewForbiddenError("cannot submit on behalf of another user")
	}
	if req.Score == nil || !validation.IsValidScore(float64(*req.Score)) {
		return nil, apperrors.NewValidationError("score must be between 0 and 100")
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.UserID != callerID {
		return nil, apperrors.NewForbiddenError("enrollment belongs to another user")
	}

	quiz, err := s.courseRepo.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.CourseID != enrollment.CourseID {
		return nil, apperrors.NewValidationError("quiz does not belong to the enrolled course")
	}

	sub := &models.QuizSubmission{
		EnrollmentID: req.EnrollmentID,
		QuizID:       req.QuizID,
		UserID:       req.UserID,
		Score:        *req.Score,
	}
	if err := s.submissionRepo.RecordAttempt(ctx, sub, models.MaxQuizAttempts); err != nil {
		if errors.Is(err, apperrors.ErrAttemptLimitExceeded) {
			s.logger.Info().Int64("enrollmentID", req.EnrollmentID).Int64("quizID", req.QuizID).
				Msg("Quiz attempt limit reached")
		}
		return nil, err
	}

	s.logger.Info().Int64("enrollmentID", sub.EnrollmentID).Int64("quizID", sub.QuizID).
		Int("attempt", sub.Attempts).Float64("score", sub.Score).Msg("Quiz submission recorded")
	return &dto.SubmitQuizResponse{
		Message:      "Submission recorded",
		AttemptCount: sub.Attempts,
		Progress:     sub.Score,
	}, nil
}

// AttemptCount reports used and remaining attempts for (enrollment, quiz)
func (s *QuizService) AttemptCount(ctx context.Context, enrollmentID, quizID int64) (*dto.AttemptCountResponse, error) {
	count, err := s.submissionRepo.CountAttempts(ctx, enrollmentID, quizID)
	if err != nil {
		return nil, err
	}
	left := models.MaxQuizAttempts - count
	if left < 0 {
		left = 0
	}
	return &dto.AttemptCountResponse{AttemptCount: count, AttemptsLeft: left}, nil
}

// MaxScore reports a quiz's passing score
func (s *QuizService) MaxScore(ctx context.Context, quizID int64) (*dto.MaxScoreResponse, error) {
	quiz, err := s.courseRepo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return &dto.MaxScoreResponse{MaxScore: quiz.PassingScore}, nil
}
