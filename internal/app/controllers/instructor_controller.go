package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/middleware"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
)

// InstructorController serves instructor scoped course views and reports
type InstructorController struct {
	catalogService CatalogService
	reportService  ReportService
	logger         zerolog.Logger
}

// NewInstructorController creates a new instructor controller
func NewInstructorController(catalogService CatalogService, reportService ReportService, logger zerolog.Logger) *InstructorController {
	return &InstructorController{
		catalogService: catalogService,
		reportService:  reportService,
		logger:         logger,
	}
}

// GetCourse returns an owned course
// @Summary Get instructor course
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /instructor/courses/{id} [get]
func (c *InstructorController) GetCourse(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	course, err := c.catalogService.OwnedCourse(ctx.Request.Context(), id, caller.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// CourseReport downloads the enrollment report of an owned course
// @Summary Course enrollment report
// @Description XLSX workbook with one row per enrollment
// @Tags instructor
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {file} file "Workbook"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /instructor/courses/{id}/report [get]
func (c *InstructorController) CourseReport(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	file, err := c.reportService.CourseReport(ctx.Request.Context(), caller.UserID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendFile(ctx, file)
}
