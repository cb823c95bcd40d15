package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/yigit/learnsphere/internal/app/migrations"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/db"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

const migrationsDir = "../../../migrations"

func setupDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("learnsphere"),
		postgres.WithUsername("learnsphere"),
		postgres.WithPassword("learnsphere"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, migrationsDir))
	return &db.PostgresDB{Pool: pool}
}

type fixture struct {
	repos      *Repositories
	student    *models.User
	instructor *models.User
	course     *models.CourseDraft
	enrollment *models.Enrollment
}

func strPtr(s string) *string { return &s }

// newFixture seeds a course with a 5m video, a null-duration pdf and a quiz in one module
func newFixture(t *testing.T, pg *db.PostgresDB) *fixture {
	t.Helper()
	ctx := t.Context()
	f := &fixture{repos: NewRepositories(pg)}

	f.instructor = &models.User{Email: "grace@example.com", PasswordHash: "x", Name: "Grace", Role: models.RoleInstructor}
	require.NoError(t, f.repos.UserRepository.Create(ctx, f.instructor))
	f.student = &models.User{Email: "ada@example.com", PasswordHash: "x", Name: "Ada", Role: models.RoleStudent}
	require.NoError(t, f.repos.UserRepository.Create(ctx, f.student))

	f.course = &models.CourseDraft{
		Course: models.Course{Title: "Go", Description: "d", Category: "programming", Difficulty: "beginner", InstructorID: f.instructor.ID},
		Modules: []models.ModuleDraft{{
			Module: models.Module{Title: "Basics", OrderIndex: 1},
			Contents: []models.ContentItem{
				{Type: models.ContentVideo, URL: "https://x.test/v.mp4", Duration: strPtr("5m"), OrderIndex: 1},
				{Type: models.ContentPDF, URL: "https://x.test/a.pdf", OrderIndex: 2},
			},
			Quiz: &models.Quiz{
				Questions:    []models.QuizQuestion{{Question: "q", Options: []string{"a", "b"}, Answer: "a"}},
				PassingScore: 70,
			},
		}},
	}
	_, err := f.repos.CourseRepository.CreateCourseTree(ctx, f.course)
	require.NoError(t, err)

	f.enrollment, err = f.repos.EnrollmentRepository.Create(ctx, f.student.ID, f.course.Course.ID)
	require.NoError(t, err)
	return f
}

func TestRepositories(t *testing.T) {
	pg := setupDB(t)
	f := newFixture(t, pg)
	ctx := t.Context()
	module := f.course.Modules[0]
	quiz := module.Quiz

	t.Run("users", func(t *testing.T) {
		got, err := f.repos.UserRepository.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, f.student.ID, got.ID)
		assert.Equal(t, models.RoleStudent, got.Role)

		err = f.repos.UserRepository.Create(ctx, &models.User{Email: "ada@example.com", PasswordHash: "x", Name: "Ada", Role: models.RoleStudent})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

		_, err = f.repos.UserRepository.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("catalog", func(t *testing.T) {
		contents, err := f.repos.CourseRepository.ListContents(ctx, module.Module.ID)
		require.NoError(t, err)
		require.Len(t, contents, 2)
		assert.Equal(t, models.ContentVideo, contents[0].Type)
		assert.Nil(t, contents[1].Duration)

		q, err := f.repos.CourseRepository.GetQuizByModule(ctx, module.Module.ID)
		require.NoError(t, err)
		assert.Equal(t, quiz.ID, q.ID)
		assert.Len(t, q.Questions, 1)

		durations, err := f.repos.CourseRepository.ListCourseDurations(ctx, f.course.Course.ID)
		require.NoError(t, err)
		assert.Len(t, durations, 2)

		m := &models.Module{CourseID: f.course.Course.ID, Title: "Next"}
		require.NoError(t, f.repos.CourseRepository.CreateModule(ctx, m))
		assert.Equal(t, 2, m.OrderIndex)

		err = f.repos.CourseRepository.UpdateQuiz(ctx, &models.Quiz{ModuleID: m.ID, PassingScore: 50})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("course tree rolls back on failure", func(t *testing.T) {
		before, err := f.repos.CourseRepository.List(ctx, CourseFilter{})
		require.NoError(t, err)

		bad := &models.CourseDraft{
			Course: models.Course{Title: "Broken", InstructorID: f.instructor.ID},
			Modules: []models.ModuleDraft{{
				Module:   models.Module{Title: "M", OrderIndex: 1},
				Contents: []models.ContentItem{{Type: "podcast", URL: "https://x.test"}},
			}},
		}
		_, err = f.repos.CourseRepository.CreateCourseTree(ctx, bad)
		require.Error(t, err)

		after, err := f.repos.CourseRepository.List(ctx, CourseFilter{})
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("duplicate enrollment", func(t *testing.T) {
		_, err := f.repos.EnrollmentRepository.Create(ctx, f.student.ID, f.course.Course.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

		_, err = f.repos.EnrollmentRepository.Create(ctx, f.student.ID, 999999)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("quiz attempts are capped at three", func(t *testing.T) {
		for i, score := range []float64{40, 55, 90} {
			sub := &models.QuizSubmission{EnrollmentID: f.enrollment.ID, QuizID: quiz.ID, UserID: f.student.ID, Score: score}
			require.NoError(t, f.repos.SubmissionRepository.RecordAttempt(ctx, sub, models.MaxQuizAttempts))
			assert.Equal(t, i+1, sub.Attempts)
		}

		sub := &models.QuizSubmission{EnrollmentID: f.enrollment.ID, QuizID: quiz.ID, UserID: f.student.ID, Score: 100}
		err := f.repos.SubmissionRepository.RecordAttempt(ctx, sub, models.MaxQuizAttempts)
		assert.ErrorIs(t, err, apperrors.ErrAttemptLimitExceeded)

		n, err := f.repos.SubmissionRepository.CountAttempts(ctx, f.enrollment.ID, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		e, err := f.repos.EnrollmentRepository.GetByID(ctx, f.enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 90.0, e.Progress)
		require.NotNil(t, e.LastQuizScore)
		assert.Equal(t, 90.0, *e.LastQuizScore)

		deadlines, err := f.repos.SubmissionRepository.Deadlines(ctx, f.student.ID)
		require.NoError(t, err)
		require.Len(t, deadlines, 3)
		assert.Equal(t, ReviewWindow, deadlines[0].Date.Sub(deadlines[0].SubmittedAt))
	})

	t.Run("ratings upsert", func(t *testing.T) {
		avg, err := f.repos.RatingRepository.Upsert(ctx, f.course.Course.ID, f.student.ID, 2)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, avg, 0.001)

		avg, err = f.repos.RatingRepository.Upsert(ctx, f.course.Course.ID, f.student.ID, 5)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, avg, 0.001)

		var n int
		require.NoError(t, pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings WHERE course_id = $1`, f.course.Course.ID).Scan(&n))
		assert.Equal(t, 1, n)

		course, err := f.repos.CourseRepository.GetByID(ctx, f.course.Course.ID)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, course.Rating, 0.001)
	})

	t.Run("upvote once per user", func(t *testing.T) {
		post, err := f.repos.ForumRepository.CreatePost(ctx, f.course.Course.ID, f.student.ID, "hello")
		require.NoError(t, err)
		assert.Equal(t, "Ada", post.Username)

		up, err := f.repos.ForumRepository.Upvote(ctx, f.course.Course.ID, post.ID, f.instructor.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, up.Upvotes)

		_, err = f.repos.ForumRepository.Upvote(ctx, f.course.Course.ID, post.ID, f.instructor.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyVoted)

		_, err = f.repos.ForumRepository.Upvote(ctx, f.course.Course.ID+1, post.ID, f.student.ID)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

		posts, err := f.repos.ForumRepository.ListPosts(ctx, f.course.Course.ID)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, 1, posts[0].Upvotes)
	})

	t.Run("concurrent submissions never exceed the cap", func(t *testing.T) {
		other := &models.User{Email: "linus@example.com", PasswordHash: "x", Name: "Linus", Role: models.RoleStudent}
		require.NoError(t, f.repos.UserRepository.Create(ctx, other))
		e, err := f.repos.EnrollmentRepository.Create(ctx, other.ID, f.course.Course.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make(chan error, 6)
		for i := 0; i < 6; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- f.repos.SubmissionRepository.RecordAttempt(ctx,
					&models.QuizSubmission{EnrollmentID: e.ID, QuizID: quiz.ID, UserID: other.ID, Score: 50},
					models.MaxQuizAttempts)
			}()
		}
		wg.Wait()
		close(errs)

		ok := 0
		for err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, apperrors.ErrAttemptLimitExceeded)
		}
		assert.Equal(t, 3, ok)
	})

	t.Run("delete requires ownership", func(t *testing.T) {
		err := f.repos.CourseRepository.Delete(ctx, f.course.Course.ID, f.student.ID)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		require.NoError(t, f.repos.CourseRepository.Delete(ctx, f.course.Course.ID, f.instructor.ID))
		_, err = f.repos.CourseRepository.GetByID(ctx, f.course.Course.ID)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}
