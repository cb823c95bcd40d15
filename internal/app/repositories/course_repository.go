package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/db"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/dberrors"
	"github.com/yigit/learnsphere/internal/pkg/logger"
)

var courseColumns = []string{
	"c.id", "c.title", "c.description", "c.category", "c.difficulty",
	"c.instructor_id", "c.rating::float8", "c.created_at",
}

// CourseFilter narrows course listings. Zero values mean "no constraint".
type CourseFilter struct {
	InstructorID      *int64
	Categories        []string
	ExcludeEnrolledBy *int64
	OrderBy           string
	Limit             uint64
}

// CourseRepository handles the course catalog: courses, modules, content and quizzes
type CourseRepository struct {
	pg *db.PostgresDB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(pg *db.PostgresDB) *CourseRepository {
	return &CourseRepository{pg: pg}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty,
		&c.InstructorID, &c.Rating, &c.CreatedAt)
	return c, err
}

// CreateCourseTree inserts a course with all of its modules, content and quizzes atomically
func (r *CourseRepository) CreateCourseTree(ctx context.Context, draft *models.CourseDraft) (int64, error) {
	var courseID int64
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		c := draft.Course
		err := tx.QueryRow(ctx, `
			INSERT INTO courses (title, description, category, difficulty, instructor_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			c.Title, c.Description, c.Category, c.Difficulty, c.InstructorID).Scan(&courseID)
		if err != nil {
			return fmt.Errorf("error creating course: %w", err)
		}

		for i := range draft.Modules {
			md := &draft.Modules[i]
			md.Module.CourseID = courseID
			if err := insertModule(ctx, tx, &md.Module); err != nil {
				return fmt.Errorf("module %d: %w", i, err)
			}
			for j := range md.Contents {
				md.Contents[j].ModuleID = md.Module.ID
				if err := insertContent(ctx, tx, &md.Contents[j]); err != nil {
					return fmt.Errorf("module %d content %d: %w", i, j, err)
				}
			}
			if md.Quiz != nil {
				md.Quiz.ModuleID = md.Module.ID
				md.Quiz.CourseID = courseID
				if err := upsertQuiz(ctx, tx, md.Quiz); err != nil {
					return fmt.Errorf("module %d quiz: %w", i, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("title", draft.Course.Title).Msg("Course creation rolled back")
		return 0, err
	}
	draft.Course.ID = courseID
	return courseID, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := psql.Select(courseColumns...).From("courses c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}
	course, err := scanCourse(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "course not found")
	}
	return course, nil
}

// List returns courses matching the filter
func (r *CourseRepository) List(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	q := psql.Select(courseColumns...).From("courses c")

	if f.InstructorID != nil {
		q = q.Where(squirrel.Eq{"c.instructor_id": *f.InstructorID})
	}
	if len(f.Categories) > 0 {
		q = q.Where("c.category = ANY(?)", f.Categories)
	}
	if f.ExcludeEnrolledBy != nil {
		q = q.Where("NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.course_id = c.id AND e.user_id = ?)", *f.ExcludeEnrolledBy)
	}
	if f.OrderBy != "" {
		q = q.OrderBy(f.OrderBy, "c.id DESC")
	} else {
		q = q.OrderBy("c.id")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}
	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// Delete removes a course owned by instructorID; modules, content and quizzes cascade
func (r *CourseRepository) Delete(ctx context.Context, id, instructorID int64) error {
	sql, args, err := psql.Delete("courses").
		Where(squirrel.Eq{"id": id, "instructor_id": instructorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}
	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("course not found or not owned by you")
	}
	return nil
}

// insertModule appends after the last module when OrderIndex is unset
func insertModule(ctx context.Context, q querier, m *models.Module) error {
	err := q.QueryRow(ctx, `
		INSERT INTO modules (course_id, title, description, order_index)
		SELECT $1, $2, $3, COALESCE(NULLIF($4, 0), COALESCE(MAX(order_index), 0) + 1)
		FROM modules WHERE course_id = $1
		RETURNING id, order_index`,
		m.CourseID, m.Title, m.Description, m.OrderIndex).Scan(&m.ID, &m.OrderIndex)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("course not found")
		}
		return fmt.Errorf("error creating module: %w", err)
	}
	return nil
}

func insertContent(ctx context.Context, q querier, c *models.ContentItem) error {
	err := q.QueryRow(ctx, `
		INSERT INTO course_content (module_id, type, url, duration, order_index)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.ModuleID, string(c.Type), c.URL, c.Duration, c.OrderIndex).Scan(&c.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("module not found")
		}
		return fmt.Errorf("error creating content: %w", err)
	}
	return nil
}

func upsertQuiz(ctx context.Context, q querier, quiz *models.Quiz) error {
	err := q.QueryRow(ctx, `
		INSERT INTO quizzes (module_id, course_id, questions, passing_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (module_id) DO UPDATE
		SET questions = EXCLUDED.questions, passing_score = EXCLUDED.passing_score
		RETURNING id`,
		quiz.ModuleID, quiz.CourseID, quiz.Questions, quiz.PassingScore).Scan(&quiz.ID)
	if err != nil {
		return fmt.Errorf("error saving quiz: %w", err)
	}
	return nil
}

// CreateModule inserts a module into an existing course
func (r *CourseRepository) CreateModule(ctx context.Context, m *models.Module) error {
	return insertModule(ctx, r.pg.Pool, m)
}

// CreateContent inserts a content item into an existing module
func (r *CourseRepository) CreateContent(ctx context.Context, c *models.ContentItem) error {
	return insertContent(ctx, r.pg.Pool, c)
}

// UpsertQuiz creates or replaces the quiz of a module
func (r *CourseRepository) UpsertQuiz(ctx context.Context, quiz *models.Quiz) error {
	return upsertQuiz(ctx, r.pg.Pool, quiz)
}

// UpdateQuiz replaces questions and passing score of the module's existing quiz
func (r *CourseRepository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	err := r.pg.Pool.QueryRow(ctx, `
		UPDATE quizzes SET questions = $1, passing_score = $2
		WHERE module_id = $3
		RETURNING id, course_id`,
		quiz.Questions, quiz.PassingScore, quiz.ModuleID).Scan(&quiz.ID, &quiz.CourseID)
	if err != nil {
		return notFound(err, "quiz not found for this module")
	}
	return nil
}

// GetModule retrieves a module by ID
func (r *CourseRepository) GetModule(ctx context.Context, id int64) (*models.Module, error) {
	m := &models.Module{}
	err := r.pg.Pool.QueryRow(ctx, `
		SELECT id, course_id, title, description, order_index FROM modules WHERE id = $1`, id).
		Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.OrderIndex)
	if err != nil {
		return nil, notFound(err, "module not found")
	}
	return m, nil
}

// ListModules returns a course's modules in order
func (r *CourseRepository) ListModules(ctx context.Context, courseID int64) ([]models.Module, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT id, course_id, title, description, order_index
		FROM modules WHERE course_id = $1
		ORDER BY order_index, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing modules: %w", err)
	}
	defer rows.Close()

	modules := make([]models.Module, 0)
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.OrderIndex); err != nil {
			return nil, fmt.Errorf("error scanning module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetContent retrieves a content item by ID
func (r *CourseRepository) GetContent(ctx context.Context, id int64) (*models.ContentItem, error) {
	c := &models.ContentItem{}
	var typ string
	err := r.pg.Pool.QueryRow(ctx, `
		SELECT id, module_id, type, url, duration, order_index FROM course_content WHERE id = $1`, id).
		Scan(&c.ID, &c.ModuleID, &typ, &c.URL, &c.Duration, &c.OrderIndex)
	if err != nil {
		return nil, notFound(err, "content not found")
	}
	c.Type = models.ContentType(typ)
	return c, nil
}

// ListContents returns a module's authored content ordered by order_index
func (r *CourseRepository) ListContents(ctx context.Context, moduleID int64) ([]models.ContentItem, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT id, module_id, type, url, duration, order_index
		FROM course_content WHERE module_id = $1
		ORDER BY order_index, id`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("error listing content: %w", err)
	}
	defer rows.Close()

	items := make([]models.ContentItem, 0)
	for rows.Next() {
		var c models.ContentItem
		var typ string
		if err := rows.Scan(&c.ID, &c.ModuleID, &typ, &c.URL, &c.Duration, &c.OrderIndex); err != nil {
			return nil, fmt.Errorf("error scanning content: %w", err)
		}
		c.Type = models.ContentType(typ)
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *CourseRepository) getQuiz(ctx context.Context, column string, value int64) (*models.Quiz, error) {
	sql, args, err := psql.Select("id", "module_id", "course_id", "questions", "passing_score").
		From("quizzes").Where(squirrel.Eq{column: value}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get quiz query: %w", err)
	}
	q := &models.Quiz{}
	err = r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&q.ID, &q.ModuleID, &q.CourseID, &q.Questions, &q.PassingScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("quiz not found")
		}
		return nil, fmt.Errorf("error fetching quiz: %w", err)
	}
	return q, nil
}

// GetQuiz retrieves a quiz by ID
func (r *CourseRepository) GetQuiz(ctx context.Context, id int64) (*models.Quiz, error) {
	return r.getQuiz(ctx, "id", id)
}

// GetQuizByModule retrieves the quiz attached to a module
func (r *CourseRepository) GetQuizByModule(ctx context.Context, moduleID int64) (*models.Quiz, error) {
	return r.getQuiz(ctx, "module_id", moduleID)
}

// ListCourseDurations returns every content item of the course with its module and raw duration
func (r *CourseRepository) ListCourseDurations(ctx context.Context, courseID int64) ([]models.ContentDuration, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT cc.id, cc.module_id, cc.duration
		FROM course_content cc
		JOIN modules m ON m.id = cc.module_id
		WHERE m.course_id = $1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing course durations: %w", err)
	}
	defer rows.Close()

	out := make([]models.ContentDuration, 0)
	for rows.Next() {
		var d models.ContentDuration
		if err := rows.Scan(&d.ContentID, &d.ModuleID, &d.Duration); err != nil {
			return nil, fmt.Errorf("error scanning duration: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
