package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/middleware"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
)

// CommunityController handles course ratings and the course forum
type CommunityController struct {
	ratingService RatingService
	forumService  ForumService
	logger        zerolog.Logger
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(ratingService RatingService, forumService ForumService, logger zerolog.Logger) *CommunityController {
	return &CommunityController{
		ratingService: ratingService,
		forumService:  forumService,
		logger:        logger,
	}
}

// GetRating returns a course's average rating
// @Summary Course rating
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.RatingResponse}
// @Router /courses/{id}/rating [get]
func (c *CommunityController) GetRating(ctx *gin.Context) {
	courseID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	rating, err := c.ratingService.GetRating(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RatingResponse{Rating: rating}))
}

// Rate stores or replaces the caller's rating of a course
// @Summary Rate course
// @Description One rating per learner and course. Rating again replaces the previous value.
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.RateRequest true "Rating between 1 and 5"
// @Success 200 {object} dto.APIResponse{data=dto.RateResponse}
// @Failure 400 {object} dto.ErrorResponse "Rating out of range"
// @Failure 403 {object} dto.ErrorResponse "userId does not match the caller"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/rate [post]
func (c *CommunityController) Rate(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.RateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.ratingService.Rate(ctx.Request.Context(), caller.UserID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListPosts lists a course's forum posts, newest first
// @Summary List forum posts
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ForumPost}
// @Router /courses/{id}/forum-posts [get]
func (c *CommunityController) ListPosts(ctx *gin.Context) {
	courseID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	posts, err := c.forumService.ListPosts(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(emptyIfNil(posts)))
}

// CreatePost publishes a forum post
// @Summary Create forum post
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=models.ForumPost}
// @Failure 400 {object} dto.ErrorResponse "Empty content"
// @Failure 403 {object} dto.ErrorResponse "userId does not match the caller"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/forum-posts [post]
func (c *CommunityController) CreatePost(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.CreatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.forumService.CreatePost(ctx.Request.Context(), caller.UserID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// Upvote adds the caller's single vote to a post
// @Summary Upvote forum post
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param postId path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.UpvoteResponse}
// @Failure 400 {object} dto.ErrorResponse "Already upvoted"
// @Failure 404 {object} dto.ErrorResponse "Post not found in this course"
// @Router /courses/{id}/forum-posts/{postId}/upvote [patch]
func (c *CommunityController) Upvote(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	postID, err := helpers.ParseIDParam(ctx, "postId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.forumService.Upvote(ctx.Request.Context(), caller.UserID, courseID, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
