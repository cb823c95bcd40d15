package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/middleware"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
)

// CourseController handles course authoring, browsing and recommendations
type CourseController struct {
	catalogService CatalogService
	logger         zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(catalogService CatalogService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListCourses lists the courses visible to the caller
// @Summary List courses
// @Description Instructors get the courses they own, everyone else gets the full catalog
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courses, err := c.catalogService.ListCourses(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(courses)))
}

// CreateCourse creates a course with its modules, content and quizzes
// @Summary Create course
// @Description Creates the whole course tree in one transaction. Any invalid part rolls everything back.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course tree"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Instructor role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/create [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	courseID, err := c.catalogService.CreateCourse(ctx.Request.Context(), caller.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", courseID).Int64("instructorID", caller.UserID).Msg("Course created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.CreateCourseResponse{
		Message:  "Course created successfully",
		CourseID: courseID,
	}))
}

// CreateModule appends a module to an owned course
// @Summary Add module
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddModuleRequest true "Module"
// @Success 201 {object} dto.APIResponse{data=models.Module}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var req dto.AddModuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	module, err := c.catalogService.CreateModule(ctx.Request.Context(), caller.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(module))
}

// AddContent appends a content item to an owned module
// @Summary Add content item
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddContentRequest true "Content item"
// @Success 201 {object} dto.APIResponse{data=models.ContentItem}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /courses/course-content [post]
func (c *CourseController) AddContent(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var req dto.AddContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.catalogService.AddContent(ctx.Request.Context(), caller.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(item))
}

// UpsertQuiz creates or replaces the quiz of an owned module
// @Summary Create or replace module quiz
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "Module ID"
// @Param request body dto.QuizRequest true "Quiz"
// @Success 200 {object} dto.APIResponse{data=models.Quiz}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /courses/modules/{moduleId}/quiz [post]
func (c *CourseController) UpsertQuiz(ctx *gin.Context) {
	c.writeQuiz(ctx, c.catalogService.UpsertQuiz)
}

// UpdateQuiz replaces the questions and passing score of an existing quiz
// @Summary Update module quiz
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "Module ID"
// @Param request body dto.QuizRequest true "Quiz"
// @Success 200 {object} dto.APIResponse{data=models.Quiz}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Module has no quiz"
// @Router /courses/modules/{moduleId}/quiz [put]
func (c *CourseController) UpdateQuiz(ctx *gin.Context) {
	c.writeQuiz(ctx, c.catalogService.UpdateQuiz)
}

func (c *CourseController) writeQuiz(ctx *gin.Context, write func(ctx context.Context, instructorID, moduleID int64, req *dto.QuizRequest) (*models.Quiz, error)) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	moduleID, err := helpers.ParseIDParam(ctx, "moduleId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.QuizRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	quiz, err := write(ctx.Request.Context(), caller.UserID, moduleID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(quiz))
}

// GetCourse returns one course
// @Summary Get course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	course, err := c.catalogService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// DeleteCourse removes an owned course
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Instructor role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found or not owned"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.catalogService.DeleteCourse(ctx.Request.Context(), id, caller.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("courseID", id).Int64("instructorID", caller.UserID).Msg("Course deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Course deleted"}))
}

// ListModules lists a course's modules in order
// @Summary List course modules
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Module}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/modules [get]
func (c *CourseController) ListModules(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	modules, err := c.catalogService.ListModules(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(modules)))
}

// GetContent returns one content item
// @Summary Get content item
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} dto.APIResponse{data=models.ContentItem}
// @Failure 404 {object} dto.ErrorResponse "Content not found"
// @Router /courses/course-content/{id} [get]
func (c *CourseController) GetContent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item, err := c.catalogService.GetContent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(item))
}

// ModuleContents lists a module's items with the quiz last
// @Summary List module items
// @Description Content items ordered by order_index followed by the module quiz, each tagged with its kind
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "Module ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ModuleItem}
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{moduleId}/contents [get]
func (c *CourseController) ModuleContents(ctx *gin.Context) {
	moduleID, err := helpers.ParseIDParam(ctx, "moduleId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items, err := c.catalogService.ModuleContents(ctx.Request.Context(), moduleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(items)))
}

// InstructorCourses lists the courses owned by an instructor
// @Summary List instructor courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor user ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 403 {object} dto.ErrorResponse "Not the same instructor"
// @Router /courses/instructor/{id} [get]
func (c *CourseController) InstructorCourses(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	courses, err := c.catalogService.InstructorCourses(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(courses)))
}

// Recent lists the newest courses
// @Summary Recent courses
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses/recent [get]
func (c *CourseController) Recent(ctx *gin.Context) {
	courses, err := c.catalogService.Recent(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(courses)))
}

// TopRated lists the highest rated courses
// @Summary Top rated courses
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses/top-rated [get]
func (c *CourseController) TopRated(ctx *gin.Context) {
	courses, err := c.catalogService.TopRated(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(courses)))
}

// Recommended lists top rated courses the caller is not enrolled in
// @Summary Recommended courses
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses/recommended [get]
func (c *CourseController) Recommended(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courses, err := c.catalogService.Recommended(ctx.Request.Context(), caller.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(courses)))
}

// RecommendByInterest lists unenrolled courses in the given or stored interest categories
// @Summary Recommend by interest
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param categories query string false "Comma separated categories, defaults to the caller's interests"
// @Param limit query int false "Maximum results" default(3)
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /courses/recommend-by-interest [get]
func (c *CourseController) RecommendByInterest(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	var q dto.InterestQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}

	courses, err := c.catalogService.RecommendByInterest(ctx.Request.Context(), caller.UserID, helpers.SplitCSV(q.Categories), q.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(courses)))
}
