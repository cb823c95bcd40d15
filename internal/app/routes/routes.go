package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/learnsphere/internal/app/controllers"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/middleware"
)

// Controllers groups every handler mounted by SetupRouter
type Controllers struct {
	Auth        *controllers.AuthController
	Course      *controllers.CourseController
	Enrollment  *controllers.EnrollmentController
	Community   *controllers.CommunityController
	Instructor  *controllers.InstructorController
	Certificate *controllers.CertificateController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", c.Health.Ping)

	api := router.Group("/api")
	api.GET("/health", c.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/login", c.Auth.Login)
		auth.GET("/session", authMiddleware.JWTAuth(), c.Auth.Session)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	anyRole := authMiddleware.RoleRequired(models.RoleStudent, models.RoleInstructor, models.RoleAdmin)
	student := authMiddleware.RoleRequired(models.RoleStudent)
	instructor := authMiddleware.RoleRequired(models.RoleInstructor)

	courses := authenticated.Group("/courses")
	{
		courses.GET("", anyRole, c.Course.ListCourses)

		// Authoring
		courses.POST("/create", instructor, c.Course.CreateCourse)
		courses.POST("/modules", instructor, c.Course.CreateModule)
		courses.POST("/course-content", instructor, c.Course.AddContent)
		courses.POST("/modules/:moduleId/quiz", instructor, c.Course.UpsertQuiz)
		courses.PUT("/modules/:moduleId/quiz", instructor, c.Course.UpdateQuiz)

		// Recommendations
		courses.GET("/recent", anyRole, c.Course.Recent)
		courses.GET("/top-rated", anyRole, c.Course.TopRated)
		courses.GET("/recommended", anyRole, c.Course.Recommended)
		courses.GET("/recommend-by-interest", anyRole, c.Course.RecommendByInterest)

		// Enrollments and progress
		courses.GET("/deadlines", anyRole, c.Enrollment.Deadlines)
		courses.GET("/enrollments", anyRole, c.Enrollment.ListEnrollments)
		courses.POST("/enrollments", student, c.Enrollment.Enroll)
		courses.POST("/enrollments/:id/progress", student, c.Enrollment.RecordProgress)

		courses.GET("/course-content/:id", anyRole, c.Course.GetContent)
		courses.GET("/instructor/:id", anyRole, c.Course.InstructorCourses)

		courses.GET("/:id", anyRole, c.Course.GetCourse)
		courses.DELETE("/:id", instructor, c.Course.DeleteCourse)
		courses.GET("/:id/modules", anyRole, c.Course.ListModules)

		// Community
		courses.GET("/:id/rating", anyRole, c.Community.GetRating)
		courses.POST("/:id/rate", student, c.Community.Rate)
		courses.GET("/:id/forum-posts", anyRole, c.Community.ListPosts)
		courses.POST("/:id/forum-posts", anyRole, c.Community.CreatePost)
		courses.PATCH("/:id/forum-posts/:postId/upvote", anyRole, c.Community.Upvote)
	}

	authenticated.GET("/modules/:moduleId/contents", anyRole, c.Course.ModuleContents)

	submissions := authenticated.Group("/submissions")
	{
		submissions.GET("/count", anyRole, c.Enrollment.AttemptCount)
		submissions.GET("/max-score", anyRole, c.Enrollment.MaxScore)
		submissions.POST("", student, c.Enrollment.SubmitQuiz)
	}

	authenticated.GET("/certificates", anyRole, c.Certificate.Certificate)

	instructorCourses := authenticated.Group("/instructor/courses")
	instructorCourses.Use(instructor)
	{
		instructorCourses.GET("/:id", c.Instructor.GetCourse)
		instructorCourses.DELETE("/:id", c.Course.DeleteCourse)
		instructorCourses.GET("/:id/report", c.Instructor.CourseReport)
	}
}
