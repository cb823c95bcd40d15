package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

type memArchive struct {
	saved map[string][]byte
	fail  bool
}

func (a *memArchive) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if a.fail {
		return "", errors.New("bucket unavailable")
	}
	a.saved[name] = data
	return "archive/" + name, nil
}

func TestCertificateService_Issue(t *testing.T) {
	m := newMemStore()
	archive := &memArchive{saved: map[string][]byte{}}
	svc := NewCertificateService(memEnrollments{m}, memCourses{m}, memUsers{m}, archive, zerolog.Nop())
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	student := m.addUser("student", models.RoleStudent)
	course := m.addCourse(99, "Go", "programming")
	m.addEnrollment(student.ID, course.ID, 100)

	file, err := svc.Issue(t.Context(), student.ID, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, PDFContentType, file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
	assert.Contains(t, file.Name, "certificate_")
	assert.Contains(t, archive.saved, file.Name)

	archive.fail = true
	_, err = svc.Issue(t.Context(), student.ID, student.ID, course.ID)
	assert.NoError(t, err, "archive failures must not fail the request")
}

func TestCertificateService_Forbidden(t *testing.T) {
	m := newMemStore()
	svc := NewCertificateService(memEnrollments{m}, memCourses{m}, memUsers{m}, nil, zerolog.Nop())

	student := m.addUser("student", models.RoleStudent)
	other := m.addUser("other", models.RoleStudent)
	course := m.addCourse(99, "Go", "programming")
	unfinished := m.addCourse(99, "Rust", "programming")
	m.addEnrollment(student.ID, course.ID, 100)
	m.addEnrollment(student.ID, unfinished.ID, 99.5)

	_, err := svc.Issue(t.Context(), other.ID, student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Issue(t.Context(), student.ID, student.ID, unfinished.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Issue(t.Context(), other.ID, other.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	file, err := svc.Issue(t.Context(), student.ID, student.ID, course.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)
}

func TestReportService_CourseReport(t *testing.T) {
	m := newMemStore()
	svc := NewReportService(memEnrollments{m}, memCourses{m}, zerolog.Nop())
	owner := m.addUser("owner", models.RoleInstructor)
	student := m.addUser("student", models.RoleStudent)
	course := m.addCourse(owner.ID, "Go", "programming")
	m.addEnrollment(student.ID, course.ID, 40)

	file, err := svc.CourseReport(t.Context(), owner.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("course_%d_report.xlsx", course.ID), file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("PK")))

	_, err = svc.CourseReport(t.Context(), student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.CourseReport(t.Context(), owner.ID, 4242)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
