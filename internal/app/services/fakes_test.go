package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/repositories"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

// memStore is a single in-memory backing store that satisfies every store interface
type memStore struct {
	mu sync.Mutex

	nextID      int64
	users       map[int64]*models.User
	courses     map[int64]*models.Course
	modules     map[int64]*models.Module
	contents    map[int64]*models.ContentItem
	quizzes     map[int64]*models.Quiz
	enrollments map[int64]*models.Enrollment
	submissions []models.QuizSubmission
	ratings     map[[2]int64]int
	posts       map[int64]*models.ForumPost
	votes       map[[2]int64]bool

	lastFilter repositories.CourseFilter
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		courses:     map[int64]*models.Course{},
		modules:     map[int64]*models.Module{},
		contents:    map[int64]*models.ContentItem{},
		quizzes:     map[int64]*models.Quiz{},
		enrollments: map[int64]*models.Enrollment{},
		ratings:     map[[2]int64]int{},
		posts:       map[int64]*models.ForumPost{},
		votes:       map[[2]int64]bool{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// users

type memUsers struct{ *memStore }

func (s memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	u.ID = s.id()
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (s memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

// catalog

type memCourses struct{ *memStore }

func (s memCourses) CreateCourseTree(ctx context.Context, d *models.CourseDraft) (int64, error) {
	s.mu.Lock()
	c := d.Course
	c.ID = s.id()
	c.CreatedAt = time.Now()
	s.courses[c.ID] = &c
	s.mu.Unlock()
	for i := range d.Modules {
		md := &d.Modules[i]
		md.Module.CourseID = c.ID
		if err := s.CreateModule(ctx, &md.Module); err != nil {
			return 0, err
		}
		for j := range md.Contents {
			md.Contents[j].ModuleID = md.Module.ID
			if err := s.CreateContent(ctx, &md.Contents[j]); err != nil {
				return 0, err
			}
		}
		if md.Quiz != nil {
			md.Quiz.ModuleID = md.Module.ID
			md.Quiz.CourseID = c.ID
			if err := s.UpsertQuiz(ctx, md.Quiz); err != nil {
				return 0, err
			}
		}
	}
	return c.ID, nil
}

func (s memCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("course not found")
	}
	cp := *c
	return &cp, nil
}

func (s memCourses) List(_ context.Context, f repositories.CourseFilter) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = f
	out := []models.Course{}
	for _, c := range s.courses {
		if f.InstructorID != nil && c.InstructorID != *f.InstructorID {
			continue
		}
		if len(f.Categories) > 0 && !contains(f.Categories, c.Category) {
			continue
		}
		if f.ExcludeEnrolledBy != nil && s.enrolledLocked(*f.ExcludeEnrolledBy, c.ID) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && uint64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (m *memStore) enrolledLocked(userID, courseID int64) bool {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (s memCourses) Delete(_ context.Context, id, instructorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok || c.InstructorID != instructorID {
		return apperrors.NewResourceNotFoundError("course not found or not owned by you")
	}
	delete(s.courses, id)
	return nil
}

func (s memCourses) CreateModule(_ context.Context, m *models.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[m.CourseID]; !ok {
		return apperrors.NewResourceNotFoundError("course not found")
	}
	if m.OrderIndex == 0 {
		maxIdx := 0
		for _, other := range s.modules {
			if other.CourseID == m.CourseID && other.OrderIndex > maxIdx {
				maxIdx = other.OrderIndex
			}
		}
		m.OrderIndex = maxIdx + 1
	}
	m.ID = s.id()
	cp := *m
	s.modules[m.ID] = &cp
	return nil
}

func (s memCourses) CreateContent(_ context.Context, c *models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[c.ModuleID]; !ok {
		return apperrors.NewResourceNotFoundError("module not found")
	}
	c.ID = s.id()
	cp := *c
	s.contents[c.ID] = &cp
	return nil
}

func (s memCourses) UpsertQuiz(_ context.Context, q *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.quizzes {
		if existing.ModuleID == q.ModuleID {
			q.ID = existing.ID
			cp := *q
			s.quizzes[q.ID] = &cp
			return nil
		}
	}
	q.ID = s.id()
	cp := *q
	s.quizzes[q.ID] = &cp
	return nil
}

func (s memCourses) UpdateQuiz(_ context.Context, q *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.quizzes {
		if existing.ModuleID == q.ModuleID {
			existing.Questions = q.Questions
			existing.PassingScore = q.PassingScore
			q.ID, q.CourseID = existing.ID, existing.CourseID
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("quiz not found for this module")
}

func (s memCourses) GetModule(_ context.Context, id int64) (*models.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.modules[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("module not found")
	}
	cp := *m
	return &cp, nil
}

func (s memCourses) ListModules(_ context.Context, courseID int64) ([]models.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Module{}
	for _, m := range s.modules {
		if m.CourseID == courseID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (s memCourses) GetContent(_ context.Context, id int64) (*models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contents[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("content not found")
	}
	cp := *c
	return &cp, nil
}

func (s memCourses) ListContents(_ context.Context, moduleID int64) ([]models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ContentItem{}
	for _, c := range s.contents {
		if c.ModuleID == moduleID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s memCourses) GetQuiz(_ context.Context, id int64) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("quiz not found")
	}
	cp := *q
	return &cp, nil
}

func (s memCourses) GetQuizByModule(_ context.Context, moduleID int64) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.quizzes {
		if q.ModuleID == moduleID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("quiz not found")
}

func (s memCourses) ListCourseDurations(_ context.Context, courseID int64) ([]models.ContentDuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ContentDuration{}
	for _, c := range s.contents {
		if m, ok := s.modules[c.ModuleID]; ok && m.CourseID == courseID {
			out = append(out, models.ContentDuration{ContentID: c.ID, ModuleID: c.ModuleID, Duration: c.Duration})
		}
	}
	return out, nil
}

// enrollments

type memEnrollments struct{ *memStore }

func (s memEnrollments) Create(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enrolledLocked(userID, courseID) {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, "already enrolled in this course")
	}
	e := &models.Enrollment{ID: s.id(), UserID: userID, CourseID: courseID, EnrolledAt: time.Now()}
	s.enrollments[e.ID] = e
	cp := *e
	return &cp, nil
}

func (s memEnrollments) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("enrollment not found")
	}
	cp := *e
	return &cp, nil
}

func (s memEnrollments) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("enrollment not found")
}

func (s memEnrollments) ListByUser(_ context.Context, userID int64) ([]models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Enrollment{}
	for _, e := range s.enrollments {
		if e.UserID == userID {
			cp := *e
			if c, ok := s.courses[e.CourseID]; ok {
				cp.CourseTitle = c.Title
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (s memEnrollments) UpdateContentProgress(_ context.Context, id int64, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[id]
	if !ok {
		return apperrors.NewResourceNotFoundError("enrollment not found")
	}
	e.Progress, e.ContentProgress = progress, progress
	return nil
}

func (s memEnrollments) ListByCourse(_ context.Context, courseID int64) ([]models.EnrollmentReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.EnrollmentReportRow{}
	for _, e := range s.enrollments {
		if e.CourseID != courseID {
			continue
		}
		row := models.EnrollmentReportRow{EnrollmentID: e.ID, Progress: e.Progress, EnrolledAt: e.EnrolledAt}
		if u, ok := s.users[e.UserID]; ok {
			row.StudentName, row.StudentEmail = u.Name, u.Email
		}
		out = append(out, row)
	}
	return out, nil
}

// submissions

type memSubmissions struct{ *memStore }

func (s memSubmissions) countLocked(enrollmentID, quizID int64) int {
	n := 0
	for _, sub := range s.submissions {
		if sub.EnrollmentID == enrollmentID && sub.QuizID == quizID {
			n++
		}
	}
	return n
}

func (s memSubmissions) CountAttempts(_ context.Context, enrollmentID, quizID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(enrollmentID, quizID), nil
}

func (s memSubmissions) RecordAttempt(_ context.Context, sub *models.QuizSubmission, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[sub.EnrollmentID]
	if !ok {
		return apperrors.NewResourceNotFoundError("enrollment not found")
	}
	prior := s.countLocked(sub.EnrollmentID, sub.QuizID)
	if prior >= maxAttempts {
		return apperrors.ErrAttemptLimitExceeded
	}
	sub.ID = s.id()
	sub.Attempts = prior + 1
	sub.SubmittedAt = time.Now()
	s.submissions = append(s.submissions, *sub)
	score := sub.Score
	e.Progress, e.LastQuizScore = score, &score
	return nil
}

func (s memSubmissions) Deadlines(_ context.Context, userID int64) ([]models.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Deadline{}
	for _, sub := range s.submissions {
		if sub.UserID == userID {
			out = append(out, models.Deadline{QuizID: sub.QuizID, SubmittedAt: sub.SubmittedAt,
				Date: sub.SubmittedAt.Add(7 * 24 * time.Hour)})
		}
	}
	return out, nil
}

// ratings

type memRatings struct{ *memStore }

func (s memRatings) Upsert(_ context.Context, courseID, userID int64, rating int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[[2]int64{courseID, userID}] = rating
	avg := s.averageLocked(courseID)
	if c, ok := s.courses[courseID]; ok {
		c.Rating = avg
	}
	return avg, nil
}

func (s memRatings) averageLocked(courseID int64) float64 {
	sum, n := 0, 0
	for k, r := range s.ratings {
		if k[0] == courseID {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func (s memRatings) Average(_ context.Context, courseID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.averageLocked(courseID), nil
}

// forum

type memForum struct{ *memStore }

func (s memForum) ListPosts(_ context.Context, courseID int64) ([]models.ForumPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ForumPost{}
	for _, p := range s.posts {
		if p.CourseID == courseID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s memForum) CreatePost(_ context.Context, courseID, userID int64, content string) (*models.ForumPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.ForumPost{ID: s.id(), CourseID: courseID, UserID: userID, Content: content,
		CreatedAt: time.Now(), Username: models.AnonymousAuthor}
	if u, ok := s.users[userID]; ok {
		p.Username = u.Name
	}
	s.posts[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s memForum) Upvote(_ context.Context, courseID, postID, userID int64) (*models.ForumPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok || p.CourseID != courseID {
		return nil, apperrors.NewResourceNotFoundError("post not found")
	}
	key := [2]int64{userID, postID}
	if s.votes[key] {
		return nil, apperrors.ErrAlreadyVoted
	}
	s.votes[key] = true
	p.Upvotes++
	cp := *p
	return &cp, nil
}

// memCache is a FloatCache that records hits
type memCache struct {
	mu     sync.Mutex
	values map[string]float64
	hits   int
}

func newMemCache() *memCache { return &memCache{values: map[string]float64{}} }

func (c *memCache) GetFloat(_ context.Context, key string) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *memCache) SetFloat(_ context.Context, key string, v float64, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = v
	return nil
}

func (c *memCache) SetFloatIfAbsent(_ context.Context, key string, v float64, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = v
	return true, nil
}

// seed helpers

func (m *memStore) addUser(name string, role models.RoleType) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: m.id(), Email: name + "@example.com", Name: name, Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addCourse(instructorID int64, title, category string) *models.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.Course{ID: m.id(), Title: title, Category: category, InstructorID: instructorID}
	m.courses[c.ID] = c
	return c
}

func (m *memStore) addModule(courseID int64, order int) *models.Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod := &models.Module{ID: m.id(), CourseID: courseID, Title: "Module", OrderIndex: order}
	m.modules[mod.ID] = mod
	return mod
}

func (m *memStore) addContent(moduleID int64, typ models.ContentType, duration *string, order int) *models.ContentItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.ContentItem{ID: m.id(), ModuleID: moduleID, Type: typ, URL: "https://cdn.example.com/x",
		Duration: duration, OrderIndex: order}
	m.contents[c.ID] = c
	return c
}

func (m *memStore) addQuiz(moduleID, courseID int64, passing int) *models.Quiz {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := &models.Quiz{ID: m.id(), ModuleID: moduleID, CourseID: courseID, PassingScore: passing,
		Questions: []models.QuizQuestion{{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"}}}
	m.quizzes[q.ID] = q
	return q
}

func (m *memStore) addEnrollment(userID, courseID int64, progress float64) *models.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &models.Enrollment{ID: m.id(), UserID: userID, CourseID: courseID, Progress: progress}
	m.enrollments[e.ID] = e
	return e
}

func (m *memStore) enrollment(id int64) models.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.enrollments[id]
}

func strPtr(s string) *string { return &s }
