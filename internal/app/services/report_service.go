package services

import (
	"context"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/learnsphere/internal/app/auth"
	"github.com/yigit/learnsphere/internal/pkg/report"
)

// ReportService builds instructor exports
type ReportService struct {
	enrollmentRepo EnrollmentStore
	authz          *appauth.AuthorizationService
	logger         zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(enrollmentRepo EnrollmentStore, courseRepo CourseStore, logger zerolog.Logger) *ReportService {
	return &ReportService{
		enrollmentRepo: enrollmentRepo,
		authz:          appauth.NewAuthorizationService(courseRepo),
		logger:         logger,
	}
}

// CourseReport exports every enrollment of a course the instructor owns
func (s *ReportService) CourseReport(ctx context.Context, instructorID, courseID int64) (*File, error) {
	course, err := s.authz.ValidateCourseOwnership(ctx, courseID, instructorID)
	if err != nil {
		return nil, err
	}

	rows, err := s.enrollmentRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	data, err := report.EnrollmentWorkbook(course.Title, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", courseID).Int("rows", len(rows)).Msg("Course report generated")
	return &File{Name: report.Filename(courseID), ContentType: report.ContentType, Data: data}, nil
}
