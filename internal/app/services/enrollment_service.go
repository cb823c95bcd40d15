package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
	"github.com/yigit/learnsphere/internal/pkg/monitoring"
	"github.com/yigit/learnsphere/internal/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// ComputeProgress returns the share of the course's total duration covered by the items of
// moduleID up to and including contentID, as a percentage clamped to [0, 100].
// A course without any timed content counts as one second long.
func ComputeProgress(durations []models.ContentDuration, moduleID, contentID int64) float64 {
	var total, completed float64
	for _, d := range durations {
		secs := float64(helpers.ContentSeconds(d.Duration))
		total += secs
		if d.ModuleID == moduleID && d.ContentID <= contentID {
			completed += secs
		}
	}
	if total == 0 {
		total = 1
	}

	progress := completed / total * 100
	switch {
	case progress < 0:
		return 0
	case progress > models.CompleteProgress:
		return models.CompleteProgress
	}
	return progress
}

// EnrollmentService handles enrollments and content progress
type EnrollmentService struct {
	enrollmentRepo EnrollmentStore
	courseRepo     CourseStore
	submissionRepo SubmissionStore
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollmentRepo EnrollmentStore, courseRepo CourseStore, submissionRepo SubmissionStore, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		submissionRepo: submissionRepo,
		logger:         logger,
	}
}

// Enroll enrolls userID in courseID
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.Create(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	enrollment.CourseTitle = course.Title

	s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("User enrolled")
	return enrollment, nil
}

// List returns the caller's enrollments with course titles
func (s *EnrollmentService) List(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, userID)
}

// Deadlines returns a review date for each of the caller's quiz submissions
func (s *EnrollmentService) Deadlines(ctx context.Context, userID int64) ([]models.Deadline, error) {
	return s.submissionRepo.Deadlines(ctx, userID)
}

// RecordProgress marks contentID of moduleID as reached and stores the resulting progress
func (s *EnrollmentService) RecordProgress(ctx context.Context, callerID, enrollmentID, moduleID, contentID int64) (progress float64, err error) {
	ctx, span := tracing.StartSpan(ctx, "EnrollmentService.RecordProgress",
		attribute.Int64("enrollment.id", enrollmentID),
		attribute.Int64("content.id", contentID))
	defer func() { tracing.EndSpan(span, err) }()

	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return 0, err
	}
	if enrollment.UserID != callerID {
		return 0, apperrors.NewForbiddenError("enrollment belongs to another user")
	}

	content, err := s.courseRepo.GetContent(ctx, contentID)
	if err != nil {
		return 0, err
	}
	if content.ModuleID != moduleID {
		return 0, apperrors.NewValidationError("content does not belong to this module")
	}
	module, err := s.courseRepo.GetModule(ctx, moduleID)
	if err != nil {
		return 0, err
	}
	if module.CourseID != enrollment.CourseID {
		return 0, apperrors.NewValidationError("module does not belong to the enrolled course")
	}

	durations, err := s.courseRepo.ListCourseDurations(ctx, enrollment.CourseID)
	if err != nil {
		return 0, err
	}
	progress = ComputeProgress(durations, moduleID, contentID)

	if err := s.enrollmentRepo.UpdateContentProgress(ctx, enrollmentID, progress); err != nil {
		return 0, err
	}
	monitoring.ProgressUpdates.Inc()

	s.logger.Debug().Int64("enrollmentID", enrollmentID).Float64("progress", progress).Msg("Progress updated")
	return progress, nil
}
