// Package services holds the business rules of the learning platform. Each service
// depends on narrow store interfaces that the repositories package satisfies.
package services

import (
	"context"
	"time"

	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/repositories"
)

// UserStore persists accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CourseStore persists the catalog tree
type CourseStore interface {
	CreateCourseTree(ctx context.Context, draft *models.CourseDraft) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, f repositories.CourseFilter) ([]models.Course, error)
	Delete(ctx context.Context, id, instructorID int64) error
	CreateModule(ctx context.Context, m *models.Module) error
	CreateContent(ctx context.Context, c *models.ContentItem) error
	UpsertQuiz(ctx context.Context, quiz *models.Quiz) error
	UpdateQuiz(ctx context.Context, quiz *models.Quiz) error
	GetModule(ctx context.Context, id int64) (*models.Module, error)
	ListModules(ctx context.Context, courseID int64) ([]models.Module, error)
	GetContent(ctx context.Context, id int64) (*models.ContentItem, error)
	ListContents(ctx context.Context, moduleID int64) ([]models.ContentItem, error)
	GetQuiz(ctx context.Context, id int64) (*models.Quiz, error)
	GetQuizByModule(ctx context.Context, moduleID int64) (*models.Quiz, error)
	ListCourseDurations(ctx context.Context, courseID int64) ([]models.ContentDuration, error)
}

// EnrollmentStore persists enrollments and their progress
type EnrollmentStore interface {
	Create(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error)
	UpdateContentProgress(ctx context.Context, id int64, progress float64) error
	ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentReportRow, error)
}

// SubmissionStore persists quiz attempts
type SubmissionStore interface {
	CountAttempts(ctx context.Context, enrollmentID, quizID int64) (int, error)
	RecordAttempt(ctx context.Context, sub *models.QuizSubmission, maxAttempts int) error
	Deadlines(ctx context.Context, userID int64) ([]models.Deadline, error)
}

// RatingStore persists ratings and the course average
type RatingStore interface {
	Upsert(ctx context.Context, courseID, userID int64, rating int) (float64, error)
	Average(ctx context.Context, courseID int64) (float64, error)
}

// ForumStore persists posts and votes
type ForumStore interface {
	ListPosts(ctx context.Context, courseID int64) ([]models.ForumPost, error)
	CreatePost(ctx context.Context, courseID, userID int64, content string) (*models.ForumPost, error)
	Upvote(ctx context.Context, courseID, postID, userID int64) (*models.ForumPost, error)
}

// FloatCache is the slice of the Redis cache used for rating averages
type FloatCache interface {
	GetFloat(ctx context.Context, key string) (float64, bool, error)
	SetFloat(ctx context.Context, key string, value float64, ttl time.Duration) error
	SetFloatIfAbsent(ctx context.Context, key string, value float64, ttl time.Duration) (bool, error)
}

// noopCache always misses
type noopCache struct{}

func (noopCache) GetFloat(context.Context, string) (float64, bool, error) { return 0, false, nil }
func (noopCache) SetFloat(context.Context, string, float64, time.Duration) error { return nil }
func (noopCache) SetFloatIfAbsent(context.Context, string, float64, time.Duration) (bool, error) {
	return false, nil
}

// Caller identifies the authenticated user behind a request
type Caller struct {
	UserID int64
	Role   models.RoleType
}

// IsInstructor reports whether the caller authors courses
func (c Caller) IsInstructor() bool {
	return c.Role == models.RoleInstructor
}
