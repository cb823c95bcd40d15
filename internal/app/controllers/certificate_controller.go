package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/middleware"
)

// CertificateController serves completion certificates
type CertificateController struct {
	certificateService CertificateService
	logger             zerolog.Logger
}

// NewCertificateController creates a new CertificateController
func NewCertificateController(certificateService CertificateService, logger zerolog.Logger) *CertificateController {
	return &CertificateController{
		certificateService: certificateService,
		logger:             logger,
	}
}

// Certificate downloads the caller's completion certificate
// @Summary Completion certificate
// @Description A4 PDF, available once the enrollment reached 100% progress
// @Tags certificates
// @Produce application/pdf
// @Security BearerAuth
// @Param user_id query int true "User ID, must be the caller"
// @Param course_id query int true "Course ID"
// @Success 200 {file} file "Certificate"
// @Failure 403 {object} dto.ErrorResponse "Course not completed or unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /certificates [get]
func (c *CertificateController) Certificate(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var q dto.CertificateQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	file, err := c.certificateService.Issue(ctx.Request.Context(), caller.UserID, q.UserID, q.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("userID", q.UserID).Int64("courseID", q.CourseID).Msg("Certificate issued")
	sendFile(ctx, file)
}
