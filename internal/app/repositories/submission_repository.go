package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/db"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/dberrors"
)

// ReviewWindow is how long after a submission its review deadline falls
const ReviewWindow = 7 * 24 * time.Hour

// SubmissionRepository handles the quiz submission ledger
type SubmissionRepository struct {
	pg *db.PostgresDB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(pg *db.PostgresDB) *SubmissionRepository {
	return &SubmissionRepository{pg: pg}
}

func countAttempts(ctx context.Context, q querier, enrollmentID, quizID int64) (int, error) {
	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM quiz_submissions WHERE enrollment_id = $1 AND quiz_id = $2`,
		enrollmentID, quizID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting attempts: %w", err)
	}
	return n, nil
}

// CountAttempts returns how many submissions exist for (enrollment, quiz)
func (r *SubmissionRepository) CountAttempts(ctx context.Context, enrollmentID, quizID int64) (int, error) {
	return countAttempts(ctx, r.pg.Pool, enrollmentID, quizID)
}

// RecordAttempt appends a submission and overwrites the enrollment's progress with its score.
// The enrollment row is locked for the duration so concurrent submissions serialise; once
// maxAttempts exist nothing is written and ErrAttemptLimitExceeded is returned.
func (r *SubmissionRepository) RecordAttempt(ctx context.Context, sub *models.QuizSubmission, maxAttempts int) error {
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM enrollments WHERE id = $1 FOR UPDATE`, sub.EnrollmentID).Scan(&locked)
		if err != nil {
			return notFound(err, "enrollment not found")
		}

		prior, err := countAttempts(ctx, tx, sub.EnrollmentID, sub.QuizID)
		if err != nil {
			return err
		}
		if prior >= maxAttempts {
			return apperrors.ErrAttemptLimitExceeded
		}

		sub.Attempts = prior + 1
		err = tx.QueryRow(ctx, `
			INSERT INTO quiz_submissions (enrollment_id, quiz_id, user_id, score, attempts, submitted_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING id, submitted_at`,
			sub.EnrollmentID, sub.QuizID, sub.UserID, sub.Score, sub.Attempts).Scan(&sub.ID, &sub.SubmittedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE enrollments
			SET progress = $1, last_quiz_score = $1, updated_at = NOW()
			WHERE id = $2`, sub.Score, sub.EnrollmentID)
		if err != nil {
			return fmt.Errorf("error updating progress: %w", err)
		}
		return nil
	})
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAttemptLimitExceeded
		}
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("score must be between 0 and 100")
		}
		if errors.Is(err, apperrors.ErrAttemptLimitExceeded) || errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		return fmt.Errorf("error recording submission: %w", err)
	}
	return nil
}

// Deadlines lists a user's submissions with their review date and course title
func (r *SubmissionRepository) Deadlines(ctx context.Context, userID int64) ([]models.Deadline, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT q.course_id, c.title, s.quiz_id, s.submitted_at
		FROM quiz_submissions s
		JOIN quizzes q ON q.id = s.quiz_id
		JOIN courses c ON c.id = q.course_id
		WHERE s.user_id = $1
		ORDER BY s.submitted_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing deadlines: %w", err)
	}
	defer rows.Close()

	out := make([]models.Deadline, 0)
	for rows.Next() {
		var d models.Deadline
		if err := rows.Scan(&d.CourseID, &d.Title, &d.QuizID, &d.SubmittedAt); err != nil {
			return nil, fmt.Errorf("error scanning deadline: %w", err)
		}
		d.Date = d.SubmittedAt.Add(ReviewWindow)
		out = append(out, d)
	}
	return out, rows.Err()
}
