package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/learnsphere/internal/app/auth"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/app/repositories"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
	"github.com/yigit/learnsphere/internal/pkg/validation"
)

// Course orderings used by the recommendation lists
const (
	orderNewest   = "c.created_at DESC"
	orderTopRated = "c.rating DESC"
)

const interestListLimit = 3

// CatalogService handles course authoring, browsing and recommendations
type CatalogService struct {
	courseRepo CourseStore
	userRepo   UserStore
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(courseRepo CourseStore, userRepo UserStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		authz:      appauth.NewAuthorizationService(courseRepo),
		logger:     logger,
	}
}

func validateContent(c *dto.CreateContentRequest) error {
	if !c.Type.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported content type %q", c.Type))
	}
	if !validation.IsHTTPURL(c.URL) {
		return apperrors.NewValidationError("content url must be an absolute http(s) URL")
	}
	if !validation.IsValidDuration(c.Duration) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid content duration %q, expected a value like 5m or 30s", *c.Duration))
	}
	return nil
}

func validateQuiz(q *dto.QuizRequest) error {
	if q.PassingScore != nil && !validation.IsValidScore(float64(*q.PassingScore)) {
		return apperrors.NewValidationError("passing_score must be between 0 and 100")
	}
	problems, err := validation.ValidateQuizQuestions(q.Questions)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid quiz questions").
			WithDetails(map[string]interface{}{"questions": problems})
	}
	return nil
}

// CreateCourse validates the whole tree up front, then stores it in one transaction
func (s *CatalogService) CreateCourse(ctx context.Context, instructorID int64, req *dto.CreateCourseRequest) (int64, error) {
	if strings.TrimSpace(req.Title) == "" {
		return 0, apperrors.NewValidationError("title is required")
	}
	for i := range req.Modules {
		m := &req.Modules[i]
		if strings.TrimSpace(m.Title) == "" {
			return 0, apperrors.NewValidationError(fmt.Sprintf("module %d: title is required", i+1))
		}
		if m.OrderIndex < 1 {
			return 0, apperrors.NewValidationError(fmt.Sprintf("module %d: order_index must be at least 1", i+1))
		}
		for j := range m.Contents {
			if err := validateContent(&m.Contents[j]); err != nil {
				return 0, err
			}
		}
		if m.Quiz != nil {
			if err := validateQuiz(m.Quiz); err != nil {
				return 0, err
			}
		}
	}

	draft := req.ToDraft(instructorID)
	courseID, err := s.courseRepo.CreateCourseTree(ctx, &draft)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("courseID", courseID).Int64("instructorID", instructorID).
		Int("modules", len(draft.Modules)).Msg("Course created")
	return courseID, nil
}

// CreateModule appends a module to an owned course
func (s *CatalogService) CreateModule(ctx context.Context, instructorID int64, req *dto.AddModuleRequest) (*models.Module, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if _, err := s.authz.ValidateCourseOwnership(ctx, req.CourseID, instructorID); err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.courseRepo.CreateModule(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

// AddContent appends a content item to a module of an owned course
func (s *CatalogService) AddContent(ctx context.Context, instructorID int64, req *dto.AddContentRequest) (*models.ContentItem, error) {
	if err := validateContent(&req.CreateContentRequest); err != nil {
		return nil, err
	}
	if _, err := s.authz.ValidateModuleOwnership(ctx, req.ModuleID, instructorID); err != nil {
		return nil, err
	}

	item := req.ToModel(req.ModuleID)
	if err := s.courseRepo.CreateContent(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertQuiz creates or replaces the quiz of a module of an owned course
func (s *CatalogService) UpsertQuiz(ctx context.Context, instructorID, moduleID int64, req *dto.QuizRequest) (*models.Quiz, error) {
	if err := validateQuiz(req); err != nil {
		return nil, err
	}
	module, err := s.authz.ValidateModuleOwnership(ctx, moduleID, instructorID)
	if err != nil {
		return nil, err
	}

	quiz := req.ToModel(moduleID)
	quiz.CourseID = module.CourseID
	if err := s.courseRepo.UpsertQuiz(ctx, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz replaces the questions and passing score of an existing quiz
func (s *CatalogService) UpdateQuiz(ctx context.Context, instructorID, moduleID int64, req *dto.QuizRequest) (*models.Quiz, error) {
	if err := validateQuiz(req); err != nil {
		return nil, err
	}
	if _, err := s.authz.ValidateModuleOwnership(ctx, moduleID, instructorID); err != nil {
		return nil, err
	}

	quiz := req.ToModel(moduleID)
	if err := s.courseRepo.UpdateQuiz(ctx, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListCourses returns an instructor's own courses, or the whole catalog for everyone else
func (s *CatalogService) ListCourses(ctx context.Context, caller Caller) ([]models.Course, error) {
	var f repositories.CourseFilter
	if caller.IsInstructor() {
		f.InstructorID = &caller.UserID
	}
	return s.courseRepo.List(ctx, f)
}

// OwnedCourse returns a course authored by instructorID
func (s *CatalogService) OwnedCourse(ctx context.Context, courseID, instructorID int64) (*models.Course, error) {
	return s.authz.ValidateCourseOwnership(ctx, courseID, instructorID)
}

// GetCourse returns a course by ID
func (s *CatalogService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListModules returns a course's modules in order
func (s *CatalogService) ListModules(ctx context.Context, courseID int64) ([]models.Module, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListModules(ctx, courseID)
}

// GetContent returns a content item by ID
func (s *CatalogService) GetContent(ctx context.Context, id int64) (*models.ContentItem, error) {
	return s.courseRepo.GetContent(ctx, id)
}

// ModuleContents lists a module's authored items in order, followed by its quiz if any
func (s *CatalogService) ModuleContents(ctx context.Context, moduleID int64) ([]models.ModuleItem, error) {
	if _, err := s.courseRepo.GetModule(ctx, moduleID); err != nil {
		return nil, err
	}

	contents, err := s.courseRepo.ListContents(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	items := make([]models.ModuleItem, 0, len(contents)+1)
	for _, c := range contents {
		items = append(items, models.ContentModuleItem(c))
	}

	quiz, err := s.courseRepo.GetQuizByModule(ctx, moduleID)
	switch {
	case err == nil:
		if quiz.Questions == nil {
			quiz.Questions = []models.QuizQuestion{}
		}
		items = append(items, models.QuizModuleItem(*quiz))
	case errors.Is(err, apperrors.ErrResourceNotFound):
	default:
		return nil, err
	}
	return items, nil
}

// DeleteCourse removes a course owned by instructorID
func (s *CatalogService) DeleteCourse(ctx context.Context, courseID, instructorID int64) error {
	if err := s.courseRepo.Delete(ctx, courseID, instructorID); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", courseID).Int64("instructorID", instructorID).Msg("Course deleted")
	return nil
}

// InstructorCourses lists the courses of instructorID; instructors may only list their own
func (s *CatalogService) InstructorCourses(ctx context.Context, caller Caller, instructorID int64) ([]models.Course, error) {
	if caller.UserID != instructorID {
		return nil, apperrors.NewForbiddenError("you can only list your own courses")
	}
	return s.courseRepo.List(ctx, repositories.CourseFilter{InstructorID: &instructorID})
}

// Recent returns the newest courses
func (s *CatalogService) Recent(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.List(ctx, repositories.CourseFilter{
		OrderBy: orderNewest,
		Limit:   helpers.DefaultListLimit,
	})
}

// TopRated returns the highest-rated courses
func (s *CatalogService) TopRated(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.List(ctx, repositories.CourseFilter{
		OrderBy: orderTopRated,
		Limit:   helpers.DefaultListLimit,
	})
}

// Recommended returns the highest-rated courses userID is not enrolled in
func (s *CatalogService) Recommended(ctx context.Context, userID int64) ([]models.Course, error) {
	return s.courseRepo.List(ctx, repositories.CourseFilter{
		ExcludeEnrolledBy: &userID,
		OrderBy:           orderTopRated,
		Limit:             helpers.DefaultListLimit,
	})
}

// RecommendByInterest returns unenrolled courses in the given categories. Without
// categories the user's stored interests are used; with neither the list is empty.
func (s *CatalogService) RecommendByInterest(ctx context.Context, userID int64, categories []string, limit int) ([]models.Course, error) {
	if len(categories) == 0 {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		categories = user.Interests
	}
	if len(categories) == 0 {
		return []models.Course{}, nil
	}

	return s.courseRepo.List(ctx, repositories.CourseFilter{
		Categories:        categories,
		ExcludeEnrolledBy: &userID,
		OrderBy:           orderTopRated,
		Limit:             uint64(helpers.ClampLimit(limit, interestListLimit)),
	})
}
