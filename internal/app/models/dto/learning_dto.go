package dto

import "github.com/yigit/learnsphere/internal/app/models"

// EnrollRequest enrolls the caller in a course
type EnrollRequest struct {
	CourseID int64 `json:"course_id" binding:"required,min=1" example:"1"`
}

// ProgressRequest marks a content item of a module as reached
type ProgressRequest struct {
	ModuleID  int64 `json:"moduleId" binding:"required,min=1" example:"3"`
	ContentID int64 `json:"contentId" binding:"required,min=1" example:"12"`
}

// ProgressResponse reports the stored completion percentage
type ProgressResponse struct {
	Message  string  `json:"message" example:"Progress updated"`
	Progress float64 `json:"progress" example:"42.5"`
}

// SubmitQuizRequest records one graded quiz attempt
type SubmitQuizRequest struct {
	EnrollmentID int64    `json:"enrollmentId" binding:"required,min=1"`
	QuizID       int64    `json:"quizId" binding:"required,min=1"`
	UserID       int64    `json:"userId" binding:"required,min=1"`
	Score        *float64 `json:"score" binding:"required"`
}

// SubmitQuizResponse reports the attempt ordinal and the new progress
type SubmitQuizResponse struct {
	Message      string  `json:"message" example:"Submission recorded"`
	AttemptCount int     `json:"attemptCount" example:"2"`
	Progress     float64 `json:"progress" example:"90"`
}

// AttemptCountQuery selects the (enrollment, quiz) pair to count
type AttemptCountQuery struct {
	EnrollmentID int64 `form:"enrollmentId" binding:"required,min=1"`
	QuizID       int64 `form:"quizId" binding:"required,min=1"`
}

// AttemptCountResponse reports used and remaining attempts
type AttemptCountResponse struct {
	AttemptCount int `json:"attemptCount" example:"1"`
	AttemptsLeft int `json:"attemptsLeft" example:"2"`
}

// MaxScoreQuery selects a quiz
type MaxScoreQuery struct {
	QuizID int64 `form:"quizId" binding:"required,min=1"`
}

// MaxScoreResponse reports a quiz's passing score
type MaxScoreResponse struct {
	MaxScore int `json:"maxScore" example:"70"`
}

// RateRequest submits a 1..5 rating
type RateRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
	Rating int   `json:"rating" binding:"required,min=1,max=5" example:"4"`
}

// RateResponse reports the course average after rating
type RateResponse struct {
	Message       string  `json:"message" example:"Rating submitted successfully!"`
	AverageRating float64 `json:"averageRating" example:"4.25"`
}

// RatingResponse reports the course average
type RatingResponse struct {
	Rating float64 `json:"rating" example:"4.25"`
}

// CreatePostRequest creates a forum post
type CreatePostRequest struct {
	UserID  int64  `json:"userId" binding:"required,min=1"`
	Content string `json:"content" binding:"required"`
}

// UpvoteResponse reports the post's upvote count after voting
type UpvoteResponse struct {
	Upvotes int               `json:"upvotes" example:"3"`
	Post    *models.ForumPost `json:"post"`
}

// CertificateQuery selects the certificate to render
type CertificateQuery struct {
	UserID   int64 `form:"user_id" binding:"required,min=1"`
	CourseID int64 `form:"course_id" binding:"required,min=1"`
}

// InterestQuery narrows interest-based recommendations
type InterestQuery struct {
	Categories string `form:"categories" example:"programming,design"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=50" example:"3"`
}
