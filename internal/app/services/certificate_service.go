package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/certificate"
	"github.com/yigit/learnsphere/internal/pkg/filestorage"
)

// PDFContentType is the media type of rendered certificates
const PDFContentType = "application/pdf"

// File is a generated document ready to be sent
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// CertificateService issues completion certificates
type CertificateService struct {
	enrollmentRepo EnrollmentStore
	courseRepo     CourseStore
	userRepo       UserStore
	storage        filestorage.Storage
	now            func() time.Time
	logger         zerolog.Logger
}

// NewCertificateService creates a new CertificateService. A nil storage skips archiving.
func NewCertificateService(enrollmentRepo EnrollmentStore, courseRepo CourseStore, userRepo UserStore, storage filestorage.Storage, logger zerolog.Logger) *CertificateService {
	return &CertificateService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		storage:        storage,
		now:            time.Now,
		logger:         logger,
	}
}

// Issue renders the certificate of userID for courseID. Only the user themself may request
// it, and only once the enrollment has reached full progress.
func (s *CertificateService) Issue(ctx context.Context, callerID, userID, courseID int64) (*File, error) {
	if callerID != userID {
		return nil, apperrors.NewForbiddenError("unauthorized access to another user's certificate")
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}
	if enrollment == nil || !enrollment.IsComplete() {
		return nil, apperrors.NewForbiddenError("course not completed or unauthorized")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	name := strconv.FormatInt(userID, 10)
	user, err := s.userRepo.GetByID(ctx, userID)
	switch {
	case err == nil:
		name = user.Name
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, err
	}

	data := certificate.Data{
		UserID:      userID,
		CourseID:    courseID,
		StudentName: name,
		CourseTitle: course.Title,
		IssuedAt:    s.now(),
	}
	pdf, err := certificate.Render(data)
	if err != nil {
		return nil, err
	}
	file := &File{Name: data.Filename(), ContentType: PDFContentType, Data: pdf}

	if s.storage != nil {
		if location, err := s.storage.Save(ctx, file.Name, file.ContentType, file.Data); err != nil {
			s.logger.Error().Err(err).Str("file", file.Name).Msg("Failed to archive certificate")
		} else {
			s.logger.Info().Str("location", location).Msg("Certificate archived")
		}
	}
	return file, nil
}
