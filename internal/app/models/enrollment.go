package models

import "time"

// Enrollment links a learner to a course. Progress is the value last written by either
// content completion or a quiz submission; the two sources are also kept apart.
type Enrollment struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	CourseID        int64     `json:"course_id" db:"course_id"`
	Progress        float64   `json:"progress" db:"progress"`
	ContentProgress float64   `json:"content_progress" db:"content_progress"`
	LastQuizScore   *float64  `json:"last_quiz_score" db:"last_quiz_score"`
	EnrolledAt      time.Time `json:"enrolled_at" db:"enrolled_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	CourseTitle string `json:"title,omitempty" db:"-"`
}

// IsComplete reports whether the enrollment has reached full progress
func (e *Enrollment) IsComplete() bool {
	return e.Progress >= CompleteProgress
}

// QuizSubmission is one graded attempt. Attempts is the 1-based ordinal of this attempt.
type QuizSubmission struct {
	ID           int64     `json:"id" db:"id"`
	EnrollmentID int64     `json:"enrollment_id" db:"enrollment_id"`
	QuizID       int64     `json:"quiz_id" db:"quiz_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Score        float64   `json:"score" db:"score"`
	Attempts     int       `json:"attempts" db:"attempts"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
}

// Deadline is a review date derived from a quiz submission
type Deadline struct {
	CourseID    int64     `json:"course_id"`
	Title       string    `json:"title"`
	QuizID      int64     `json:"quiz_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Date        time.Time `json:"date"`
}

// EnrollmentReportRow is one learner line of an instructor's course report
type EnrollmentReportRow struct {
	EnrollmentID    int64
	StudentName     string
	StudentEmail    string
	Progress        float64
	ContentProgress float64
	LastQuizScore   *float64
	AttemptsUsed    int
	EnrolledAt      time.Time
}
