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

// ForumRepository handles course forum posts and votes
type ForumRepository struct {
	pg *db.PostgresDB
}

// NewForumRepository creates a new ForumRepository
func NewForumRepository(pg *db.PostgresDB) *ForumRepository {
	return &ForumRepository{pg: pg}
}

const postSelect = `
	SELECT fp.id, fp.course_id, COALESCE(fp.user_id, 0), fp.content, fp.upvotes, fp.created_at,
	       COALESCE(u.name, '` + models.AnonymousAuthor + `')
	FROM forum_posts fp
	LEFT JOIN users u ON u.id = fp.user_id`

func scanPost(row pgx.Row) (*models.ForumPost, error) {
	p := &models.ForumPost{}
	err := row.Scan(&p.ID, &p.CourseID, &p.UserID, &p.Content, &p.Upvotes, &p.CreatedAt, &p.Username)
	return p, err
}

func getPost(ctx context.Context, q querier, id int64) (*models.ForumPost, error) {
	p, err := scanPost(q.QueryRow(ctx, postSelect+` WHERE fp.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "post not found")
	}
	return p, nil
}

// ListPosts returns a course's posts newest first
func (r *ForumRepository) ListPosts(ctx context.Context, courseID int64) ([]models.ForumPost, error) {
	rows, err := r.pg.Pool.Query(ctx, postSelect+`
		WHERE fp.course_id = $1
		ORDER BY fp.created_at DESC, fp.id DESC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.ForumPost, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// CreatePost inserts a post and returns it with its author name
func (r *ForumRepository) CreatePost(ctx context.Context, courseID, userID int64, content string) (*models.ForumPost, error) {
	var id int64
	err := r.pg.Pool.QueryRow(ctx, `
		INSERT INTO forum_posts (course_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id`, courseID, userID, content).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("course not found")
		}
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return getPost(ctx, r.pg.Pool, id)
}

// Upvote records userID's single vote on a post of courseID and bumps its counter.
// A second vote by the same user returns ErrAlreadyVoted and leaves the counter untouched.
func (r *ForumRepository) Upvote(ctx context.Context, courseID, postID, userID int64) (*models.ForumPost, error) {
	var post *models.ForumPost
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM forum_posts WHERE id = $1 AND course_id = $2 FOR UPDATE`,
			postID, courseID).Scan(&locked)
		if err != nil {
			return notFound(err, "post not found")
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO user_votes (user_id, post_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, userID, postID)
		if err != nil {
			return fmt.Errorf("error recording vote: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewCustomError(apperrors.ErrAlreadyVoted, "you have already voted on this post")
		}

		if _, err := tx.Exec(ctx, `UPDATE forum_posts SET upvotes = upvotes + 1 WHERE id = $1`, postID); err != nil {
			return fmt.Errorf("error updating upvotes: %w", err)
		}

		post, err = getPost(ctx, tx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}
