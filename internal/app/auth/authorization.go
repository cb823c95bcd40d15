// Package auth holds resource level authorization rules shared by services.
package auth

import (
	"context"

	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

// CourseReader is the course lookup authorization needs
type CourseReader interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetModule(ctx context.Context, id int64) (*models.Module, error)
}

// AuthorizationService handles ownership checks on authored resources
type AuthorizationService struct {
	courses CourseReader
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courses CourseReader) *AuthorizationService {
	return &AuthorizationService{courses: courses}
}

// ValidateCourseOwnership returns the course when userID authored it, a permission error otherwise.
// A missing course stays a not found error.
func (s *AuthorizationService) ValidateCourseOwnership(ctx context.Context, courseID, userID int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != userID {
		return nil, apperrors.NewForbiddenError("you do not own this course")
	}
	return course, nil
}

// ValidateModuleOwnership returns the module when userID authored its course
func (s *AuthorizationService) ValidateModuleOwnership(ctx context.Context, moduleID, userID int64) (*models.Module, error) {
	module, err := s.courses.GetModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ValidateCourseOwnership(ctx, module.CourseID, userID); err != nil {
		return nil, err
	}
	return module, nil
}
