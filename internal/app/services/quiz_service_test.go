package services

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

type quizFixture struct {
	m       *memStore
	svc     *QuizService
	student *models.User
	enr     *models.Enrollment
	quiz    *models.Quiz
}

func newQuizFixture() quizFixture {
	m := newMemStore()
	svc := NewQuizService(memSubmissions{m}, memEnrollments{m}, memCourses{m}, zerolog.Nop())
	student := m.addUser("student", models.RoleStudent)
	course := m.addCourse(99, "Go", "programming")
	mod := m.addModule(course.ID, 1)
	quiz := m.addQuiz(mod.ID, course.ID, 70)
	enr := m.addEnrollment(student.ID, course.ID, 0)
	return quizFixture{m: m, svc: svc, student: student, enr: enr, quiz: quiz}
}

func (f quizFixture) request(score float64) *dto.SubmitQuizRequest {
	return &dto.SubmitQuizRequest{
		EnrollmentID: f.enr.ID,
		QuizID:       f.quiz.ID,
		UserID:       f.student.ID,
		Score:        &score,
	}
}

func TestQuizService_ThreeAttemptsThenLimit(t *testing.T) {
	f := newQuizFixture()

	for i, score := range []float64{40, 55, 90} {
		resp, err := f.svc.Submit(t.Context(), f.student.ID, f.request(score))
		require.NoError(t, err)
		assert.Equal(t, i+1, resp.AttemptCount)
		assert.Equal(t, score, resp.Progress)
		assert.Equal(t, "Submission recorded", resp.Message)
	}

	_, err := f.svc.Submit(t.Context(), f.student.ID, f.request(100))
	assert.ErrorIs(t, err, apperrors.ErrAttemptLimitExceeded)

	stored := f.m.enrollment(f.enr.ID)
	assert.Equal(t, 90.0, stored.Progress)
	require.NotNil(t, stored.LastQuizScore)
	assert.Equal(t, 90.0, *stored.LastQuizScore)

	count, err := f.svc.AttemptCount(t.Context(), f.enr.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count.AttemptCount)
	assert.Equal(t, 0, count.AttemptsLeft)
}

func TestQuizService_ConcurrentSubmissionsCapped(t *testing.T) {
	f := newQuizFixture()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, limited := 0, 0
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(t.Context(), f.student.ID, f.request(50))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, apperrors.ErrAttemptLimitExceeded) {
				limited++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, models.MaxQuizAttempts, ok)
	assert.Equal(t, 3, limited)
}

func TestQuizService_Rejections(t *testing.T) {
	f := newQuizFixture()
	intruder := f.m.addUser("intruder", models.RoleStudent)
	otherCourse := f.m.addCourse(99, "Other", "x")
	foreignQuiz := f.m.addQuiz(f.m.addModule(otherCourse.ID, 1).ID, otherCourse.ID, 70)

	tests := []struct {
		name   string
		caller int64
		mutate func(r *dto.SubmitQuizRequest)
		want   error
	}{
		{"user mismatch", intruder.ID, func(r *dto.SubmitQuizRequest) {}, apperrors.ErrPermissionDenied},
		{"enrollment of someone else", intruder.ID, func(r *dto.SubmitQuizRequest) { r.UserID = intruder.ID }, apperrors.ErrPermissionDenied},
		{"score too high", f.student.ID, func(r *dto.SubmitQuizRequest) { s := 101.0; r.Score = &s }, apperrors.ErrValidationFailed},
		{"score negative", f.student.ID, func(r *dto.SubmitQuizRequest) { s := -1.0; r.Score = &s }, apperrors.ErrValidationFailed},
		{"missing score", f.student.ID, func(r *dto.SubmitQuizRequest) { r.Score = nil }, apperrors.ErrValidationFailed},
		{"unknown enrollment", f.student.ID, func(r *dto.SubmitQuizRequest) { r.EnrollmentID = 9999 }, apperrors.ErrResourceNotFound},
		{"unknown quiz", f.student.ID, func(r *dto.SubmitQuizRequest) { r.QuizID = 9999 }, apperrors.ErrResourceNotFound},
		{"quiz of another course", f.student.ID, func(r *dto.SubmitQuizRequest) { r.QuizID = foreignQuiz.ID }, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(80)
			tt.mutate(req)
			_, err := f.svc.Submit(t.Context(), tt.caller, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	count, err := f.svc.AttemptCount(t.Context(), f.enr.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count.AttemptCount)
	assert.Equal(t, 3, count.AttemptsLeft)
}

func TestQuizService_MaxScore(t *testing.T) {
	f := newQuizFixture()

	resp, err := f.svc.MaxScore(t.Context(), f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, resp.MaxScore)

	_, err = f.svc.MaxScore(t.Context(), 9999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
