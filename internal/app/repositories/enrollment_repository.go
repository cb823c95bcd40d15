package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/db"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/dberrors"
)

const enrollmentSelect = `
	SELECT e.id, e.user_id, e.course_id, e.progress, e.content_progress, e.last_quiz_score,
	       e.enrolled_at, e.updated_at
	FROM enrollments e`

// EnrollmentRepository handles enrollments and their progress columns
type EnrollmentRepository struct {
	pg *db.PostgresDB
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(pg *db.PostgresDB) *EnrollmentRepository {
	return &EnrollmentRepository{pg: pg}
}

func scanEnrollment(row pgx.Row, extra ...any) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	dest := append([]any{&e.ID, &e.UserID, &e.CourseID, &e.Progress, &e.ContentProgress,
		&e.LastQuizScore, &e.EnrolledAt, &e.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

// Create enrolls a user in a course with zero progress
func (r *EnrollmentRepository) Create(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	row := r.pg.Pool.QueryRow(ctx, `
		INSERT INTO enrollments (user_id, course_id, progress)
		VALUES ($1, $2, 0)
		RETURNING id, user_id, course_id, progress, content_progress, last_quiz_score, enrolled_at, updated_at`,
		userID, courseID)
	e, err := scanEnrollment(row)
	if err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, "already enrolled in this course")
		case dberrors.IsForeignKeyViolation(err):
			return nil, apperrors.NewResourceNotFoundError("course not found")
		}
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}
	return e, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, err := scanEnrollment(r.pg.Pool.QueryRow(ctx, enrollmentSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "enrollment not found")
	}
	return e, nil
}

// GetByUserAndCourse retrieves the enrollment of a user in a course
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	e, err := scanEnrollment(r.pg.Pool.QueryRow(ctx,
		enrollmentSelect+` WHERE e.user_id = $1 AND e.course_id = $2`, userID, courseID))
	if err != nil {
		return nil, notFound(err, "enrollment not found")
	}
	return e, nil
}

// ListByUser returns a user's enrollments with course titles, newest first
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT e.id, e.user_id, e.course_id, e.progress, e.content_progress, e.last_quiz_score,
		       e.enrolled_at, e.updated_at, c.title
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC, e.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Enrollment, 0)
	for rows.Next() {
		var title string
		e, err := scanEnrollment(rows, &title)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		e.CourseTitle = title
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateContentProgress overwrites progress and content_progress in one statement
func (r *EnrollmentRepository) UpdateContentProgress(ctx context.Context, id int64, progress float64) error {
	tag, err := r.pg.Pool.Exec(ctx, `
		UPDATE enrollments
		SET progress = $1, content_progress = $1, updated_at = NOW()
		WHERE id = $2`, progress, id)
	if err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("enrollment not found")
	}
	return nil
}

// ListByCourse returns one report row per enrollment in a course
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentReportRow, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT e.id, u.name, u.email, e.progress, e.content_progress, e.last_quiz_score,
		       (SELECT COUNT(*) FROM quiz_submissions s WHERE s.enrollment_id = e.id),
		       e.enrolled_at
		FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id = $1
		ORDER BY u.name, e.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing course enrollments: %w", err)
	}
	defer rows.Close()

	out := make([]models.EnrollmentReportRow, 0)
	for rows.Next() {
		var row models.EnrollmentReportRow
		if err := rows.Scan(&row.EnrollmentID, &row.StudentName, &row.StudentEmail, &row.Progress,
			&row.ContentProgress, &row.LastQuizScore, &row.AttemptsUsed, &row.EnrolledAt); err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
