// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/app/services"
	"github.com/yigit/learnsphere/internal/middleware"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/auth"
)

// AuthService is the identity surface used by AuthController
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Session(claims *auth.Claims) *dto.SessionResponse
}

// CatalogService is the course authoring and browsing surface
type CatalogService interface {
	CreateCourse(ctx context.Context, instructorID int64, req *dto.CreateCourseRequest) (int64, error)
	CreateModule(ctx context.Context, instructorID int64, req *dto.AddModuleRequest) (*models.Module, error)
	AddContent(ctx context.Context, instructorID int64, req *dto.AddContentRequest) (*models.ContentItem, error)
	UpsertQuiz(ctx context.Context, instructorID, moduleID int64, req *dto.QuizRequest) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, instructorID, moduleID int64, req *dto.QuizRequest) (*models.Quiz, error)
	ListCourses(ctx context.Context, caller services.Caller) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	OwnedCourse(ctx context.Context, courseID, instructorID int64) (*models.Course, error)
	ListModules(ctx context.Context, courseID int64) ([]models.Module, error)
	GetContent(ctx context.Context, id int64) (*models.ContentItem, error)
	ModuleContents(ctx context.Context, moduleID int64) ([]models.ModuleItem, error)
	DeleteCourse(ctx context.Context, courseID, instructorID int64) error
	InstructorCourses(ctx context.Context, caller services.Caller, instructorID int64) ([]models.Course, error)
	Recent(ctx context.Context) ([]models.Course, error)
	TopRated(ctx context.Context) ([]models.Course, error)
	Recommended(ctx context.Context, userID int64) ([]models.Course, error)
	RecommendByInterest(ctx context.Context, userID int64, categories []string, limit int) ([]models.Course, error)
}

// EnrollmentService is the enrollment and progress surface
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	List(ctx context.Context, userID int64) ([]models.Enrollment, error)
	Deadlines(ctx context.Context, userID int64) ([]models.Deadline, error)
	RecordProgress(ctx context.Context, callerID, enrollmentID, moduleID, contentID int64) (float64, error)
}

// QuizService is the submission surface
type QuizService interface {
	Submit(ctx context.Context, callerID int64, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	AttemptCount(ctx context.Context, enrollmentID, quizID int64) (*dto.AttemptCountResponse, error)
	MaxScore(ctx context.Context, quizID int64) (*dto.MaxScoreResponse, error)
}

// RatingService is the course rating surface
type RatingService interface {
	Rate(ctx context.Context, callerID, courseID int64, req *dto.RateRequest) (*dto.RateResponse, error)
	GetRating(ctx context.Context, courseID int64) (float64, error)
}

// ForumService is the course forum surface
type ForumService interface {
	ListPosts(ctx context.Context, courseID int64) ([]models.ForumPost, error)
	CreatePost(ctx context.Context, callerID, courseID int64, req *dto.CreatePostRequest) (*models.ForumPost, error)
	Upvote(ctx context.Context, callerID, courseID, postID int64) (*dto.UpvoteResponse, error)
}

// CertificateService renders completion certificates
type CertificateService interface {
	Issue(ctx context.Context, callerID, userID, courseID int64) (*services.File, error)
}

// ReportService renders instructor reports
type ReportService interface {
	CourseReport(ctx context.Context, instructorID, courseID int64) (*services.File, error)
}

// currentCaller reads the authenticated identity, writing a 401 when it is missing
func currentCaller(ctx *gin.Context) (services.Caller, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return services.Caller{}, false
	}
	role, _ := middleware.CurrentRole(ctx)
	return services.Caller{UserID: userID, Role: role}, true
}

// sendFile writes a generated document as an attachment
func sendFile(ctx *gin.Context, f *services.File) {
	ctx.Header("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	ctx.Data(http.StatusOK, f.ContentType, f.Data)
}

// emptyIfNil keeps list endpoints returning [] instead of null
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
