package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/learnsphere/internal/db"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// notFound maps pgx.ErrNoRows onto a not-found error carrying msg
func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewResourceNotFoundError(msg)
	}
	return err
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
	SubmissionRepository *SubmissionRepository
	RatingRepository     *RatingRepository
	ForumRepository      *ForumRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(pg),
		CourseRepository:     NewCourseRepository(pg),
		EnrollmentRepository: NewEnrollmentRepository(pg),
		SubmissionRepository: NewSubmissionRepository(pg),
		RatingRepository:     NewRatingRepository(pg),
		ForumRepository:      NewForumRepository(pg),
	}
}
