package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnsphere/internal/db"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/dberrors"
)

// RatingRepository handles course ratings and the denormalised course average
type RatingRepository struct {
	pg *db.PostgresDB
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(pg *db.PostgresDB) *RatingRepository {
	return &RatingRepository{pg: pg}
}

// Upsert stores the user's rating, recomputes the course average and writes it onto the course
func (r *RatingRepository) Upsert(ctx context.Context, courseID, userID int64, rating int) (float64, error) {
	var avg float64
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO ratings (course_id, user_id, rating)
			VALUES ($1, $2, $3)
			ON CONFLICT (course_id, user_id)
			DO UPDATE SET rating = EXCLUDED.rating, created_at = NOW()`,
			courseID, userID, rating)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.NewResourceNotFoundError("course not found")
			}
			return fmt.Errorf("error saving rating: %w", err)
		}

		if err := tx.QueryRow(ctx, `
			SELECT COALESCE(AVG(rating), 0)::float8 FROM ratings WHERE course_id = $1`,
			courseID).Scan(&avg); err != nil {
			return fmt.Errorf("error averaging ratings: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE courses SET rating = $1 WHERE id = $2`, avg, courseID); err != nil {
			return fmt.Errorf("error updating course rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return avg, nil
}

// Average returns the mean rating of a course, 0 when unrated
func (r *RatingRepository) Average(ctx context.Context, courseID int64) (float64, error) {
	var avg float64
	err := r.pg.Pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8 FROM ratings WHERE course_id = $1`, courseID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("error averaging ratings: %w", err)
	}
	return avg, nil
}
