package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/middleware"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
)

// EnrollmentController handles enrollments, progress and quiz submissions
type EnrollmentController struct {
	enrollmentService EnrollmentService
	quizService       QuizService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService EnrollmentService, quizService QuizService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		quizService:       quizService,
		logger:            logger,
	}
}

// Enroll enrolls the caller in a course
// @Summary Enroll in course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Course to join"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /courses/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), caller.UserID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("userID", caller.UserID).Int64("courseID", req.CourseID).Msg("Enrolled")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment))
}

// ListEnrollments lists the caller's enrollments
// @Summary List my enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Router /courses/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	enrollments, err := c.enrollmentService.List(ctx.Request.Context(), caller.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(enrollments)))
}

// Deadlines lists review dates derived from the caller's quiz submissions
// @Summary Upcoming deadlines
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Deadline}
// @Router /courses/deadlines [get]
func (c *EnrollmentController) Deadlines(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	deadlines, err := c.enrollmentService.Deadlines(ctx.Request.Context(), caller.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(deadlines)))
}

// RecordProgress marks a content item as reached and stores the duration weighted progress
// @Summary Record content progress
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.ProgressRequest true "Reached content"
// @Success 200 {object} dto.APIResponse{data=dto.ProgressResponse}
// @Failure 400 {object} dto.ErrorResponse "Content does not belong to the module or course"
// @Failure 403 {object} dto.ErrorResponse "Not your enrollment"
// @Failure 404 {object} dto.ErrorResponse "Enrollment, module or content not found"
// @Router /courses/enrollments/{id}/progress [post]
func (c *EnrollmentController) RecordProgress(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	enrollmentID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.ProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	progress, err := c.enrollmentService.RecordProgress(ctx.Request.Context(), caller.UserID, enrollmentID, req.ModuleID, req.ContentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ProgressResponse{
		Message:  "Progress updated",
		Progress: progress,
	}))
}

// SubmitQuiz records a graded quiz attempt
// @Summary Submit quiz attempt
// @Description Records a score for the caller's enrollment. At most three attempts are accepted per quiz.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitQuizRequest true "Attempt"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitQuizResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid score or maximum attempts reached"
// @Failure 403 {object} dto.ErrorResponse "Not your enrollment"
// @Failure 404 {object} dto.ErrorResponse "Enrollment or quiz not found"
// @Router /submissions [post]
func (c *EnrollmentController) SubmitQuiz(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var req dto.SubmitQuizRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.quizService.Submit(ctx.Request.Context(), caller.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// AttemptCount reports used and remaining attempts
// @Summary Quiz attempt count
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param enrollmentId query int true "Enrollment ID"
// @Param quizId query int true "Quiz ID"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptCountResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing parameters"
// @Router /submissions/count [get]
func (c *EnrollmentController) AttemptCount(ctx *gin.Context) {
	var q dto.AttemptCountQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	resp, err := c.quizService.AttemptCount(ctx.Request.Context(), q.EnrollmentID, q.QuizID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// MaxScore reports a quiz's passing score
// @Summary Quiz passing score
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param quizId query int true "Quiz ID"
// @Success 200 {object} dto.APIResponse{data=dto.MaxScoreResponse}
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /submissions/max-score [get]
func (c *EnrollmentController) MaxScore(ctx *gin.Context) {
	var q dto.MaxScoreQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	resp, err := c.quizService.MaxScore(ctx.Request.Context(), q.QuizID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
