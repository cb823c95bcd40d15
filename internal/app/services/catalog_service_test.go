package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

func newCatalogFixture() (*memStore, *CatalogService) {
	m := newMemStore()
	return m, NewCatalogService(memCourses{m}, memUsers{m}, zerolog.Nop())
}

func intPtr(i int) *int { return &i }

func validCourseRequest() *dto.CreateCourseRequest {
	return &dto.CreateCourseRequest{
		Title:       "Intro to Go",
		Description: "Basics",
		Category:    "programming",
		Difficulty:  "beginner",
		Modules: []dto.CreateModuleRequest{{
			Title:      "Getting started",
			OrderIndex: 1,
			Contents: []dto.CreateContentRequest{
				{Type: models.ContentVideo, URL: "https://cdn.example.com/intro.mp4", Duration: strPtr("5m"), OrderIndex: 1},
				{Type: models.ContentPDF, URL: "https://cdn.example.com/notes.pdf", OrderIndex: 2},
			},
			Quiz: &dto.QuizRequest{
				Questions:    []models.QuizQuestion{{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"}},
				PassingScore: intPtr(60),
			},
		}},
	}
}

func TestCatalogService_CreateCourseAndModuleContents(t *testing.T) {
	m, svc := newCatalogFixture()
	instructor := m.addUser("teacher", models.RoleInstructor)

	courseID, err := svc.CreateCourse(t.Context(), instructor.ID, validCourseRequest())
	require.NoError(t, err)

	modules, err := svc.ListModules(t.Context(), courseID)
	require.NoError(t, err)
	require.Len(t, modules, 1)

	items, err := svc.ModuleContents(t.Context(), modules[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, models.ItemVideo, items[0].Kind)
	assert.NotNil(t, items[0].Content)
	assert.Nil(t, items[0].Quiz)
	assert.Equal(t, models.ItemPDF, items[1].Kind)
	assert.Equal(t, models.ItemQuiz, items[2].Kind)
	require.NotNil(t, items[2].Quiz)
	assert.Equal(t, 60, items[2].Quiz.PassingScore)
	assert.Equal(t, courseID, items[2].Quiz.CourseID)
}

func TestCatalogService_CreateCourseValidation(t *testing.T) {
	m, svc := newCatalogFixture()
	instructor := m.addUser("teacher", models.RoleInstructor)

	tests := []struct {
		name   string
		mutate func(r *dto.CreateCourseRequest)
	}{
		{"relative url", func(r *dto.CreateCourseRequest) { r.Modules[0].Contents[0].URL = "/intro.mp4" }},
		{"duration in hours", func(r *dto.CreateCourseRequest) { r.Modules[0].Contents[0].Duration = strPtr("1h") }},
		{"duration too long", func(r *dto.CreateCourseRequest) { r.Modules[0].Contents[0].Duration = strPtr("999999999999999999m") }},
		{"unknown type", func(r *dto.CreateCourseRequest) { r.Modules[0].Contents[0].Type = "podcast" }},
		{"module order zero", func(r *dto.CreateCourseRequest) { r.Modules[0].OrderIndex = 0 }},
		{"module without title", func(r *dto.CreateCourseRequest) { r.Modules[0].Title = " " }},
		{"passing score too high", func(r *dto.CreateCourseRequest) { r.Modules[0].Quiz.PassingScore = intPtr(101) }},
		{"question with one option", func(r *dto.CreateCourseRequest) { r.Modules[0].Quiz.Questions[0].Options = []string{"4"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCourseRequest()
			tt.mutate(req)
			_, err := svc.CreateCourse(t.Context(), instructor.ID, req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
	assert.Empty(t, m.courses)
}

func TestCatalogService_Ownership(t *testing.T) {
	m, svc := newCatalogFixture()
	owner := m.addUser("owner", models.RoleInstructor)
	other := m.addUser("other", models.RoleInstructor)
	course := m.addCourse(owner.ID, "Go", "programming")

	_, err := svc.CreateModule(t.Context(), other.ID, &dto.AddModuleRequest{CourseID: course.ID, Title: "M"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	mod, err := svc.CreateModule(t.Context(), owner.ID, &dto.AddModuleRequest{CourseID: course.ID, Title: "M"})
	require.NoError(t, err)
	assert.Equal(t, 1, mod.OrderIndex)

	content := &dto.AddContentRequest{ModuleID: mod.ID, CreateContentRequest: dto.CreateContentRequest{
		Type: models.ContentArticle, URL: "https://blog.example.com/post"}}
	_, err = svc.AddContent(t.Context(), other.ID, content)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	item, err := svc.AddContent(t.Context(), owner.ID, content)
	require.NoError(t, err)
	assert.Equal(t, mod.ID, item.ModuleID)

	quizReq := &dto.QuizRequest{
		Questions:    []models.QuizQuestion{{Question: "q", Options: []string{"a", "b"}, Answer: "a"}},
		PassingScore: intPtr(80),
	}
	_, err = svc.UpdateQuiz(t.Context(), owner.ID, mod.ID, quizReq)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	quiz, err := svc.UpsertQuiz(t.Context(), owner.ID, mod.ID, quizReq)
	require.NoError(t, err)
	assert.Equal(t, course.ID, quiz.CourseID)

	quizReq.PassingScore = intPtr(50)
	updated, err := svc.UpdateQuiz(t.Context(), owner.ID, mod.ID, quizReq)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, updated.ID)
	assert.Equal(t, 50, updated.PassingScore)

	assert.ErrorIs(t, svc.DeleteCourse(t.Context(), course.ID, other.ID), apperrors.ErrResourceNotFound)
	assert.NoError(t, svc.DeleteCourse(t.Context(), course.ID, owner.ID))
	_, err = svc.GetCourse(t.Context(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCatalogService_Listings(t *testing.T) {
	m, svc := newCatalogFixture()
	owner := m.addUser("owner", models.RoleInstructor)
	student := m.addUser("student", models.RoleStudent)
	student.Interests = []string{"design"}
	mine := m.addCourse(owner.ID, "Go", "programming")
	m.addCourse(owner.ID+100, "Figma", "design")
	m.addEnrollment(student.ID, mine.ID, 0)

	own, err := svc.ListCourses(t.Context(), Caller{UserID: owner.ID, Role: models.RoleInstructor})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := svc.ListCourses(t.Context(), Caller{UserID: student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.InstructorCourses(t.Context(), Caller{UserID: owner.ID, Role: models.RoleInstructor}, owner.ID+1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	recommended, err := svc.Recommended(t.Context(), student.ID)
	require.NoError(t, err)
	require.Len(t, recommended, 1)
	assert.Equal(t, "Figma", recommended[0].Title)

	byInterest, err := svc.RecommendByInterest(t.Context(), student.ID, nil, 0)
	require.NoError(t, err)
	require.Len(t, byInterest, 1)
	assert.Equal(t, "design", byInterest[0].Category)
	assert.Equal(t, uint64(3), m.lastFilter.Limit)

	none, err := svc.RecommendByInterest(t.Context(), student.ID, []string{"programming"}, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Recent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), m.lastFilter.Limit)
	assert.Equal(t, orderNewest, m.lastFilter.OrderBy)
}
