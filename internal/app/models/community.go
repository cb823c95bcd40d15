package models

import "time"

// Rating is a learner's single 1..5 score for a course
type Rating struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"course_id" db:"course_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ForumPost is a course discussion entry. Username falls back to "Anonymous".
type ForumPost struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"course_id" db:"course_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	Upvotes   int       `json:"upvotes" db:"upvotes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Username  string    `json:"username" db:"username"`
}

// AnonymousAuthor is shown for posts whose author is gone
const AnonymousAuthor = "Anonymous"
