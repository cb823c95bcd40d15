package dto

import "github.com/yigit/learnsphere/internal/app/models"

// CreateCourseRequest authors a whole course tree in one transaction
type CreateCourseRequest struct {
	Title       string                `json:"title" binding:"required" example:"Intro to Go"`
	Description string                `json:"description" binding:"required"`
	Category    string                `json:"category" binding:"required" example:"programming"`
	Difficulty  string                `json:"difficulty" binding:"required" example:"beginner"`
	Modules     []CreateModuleRequest `json:"modules" binding:"required,dive"`
}

// CreateModuleRequest is a module inside a course creation payload
type CreateModuleRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	OrderIndex  int                    `json:"order_index" binding:"required,min=1" example:"1"`
	Contents    []CreateContentRequest `json:"contents" binding:"omitempty,dive"`
	Quiz        *QuizRequest           `json:"quiz,omitempty"`
}

// CreateContentRequest is one authored content item
type CreateContentRequest struct {
	Type       models.ContentType `json:"type" binding:"required,oneof=video pdf article" example:"video"`
	URL        string             `json:"url" binding:"required,http_url" example:"https://cdn.example.com/intro.mp4"`
	Duration   *string            `json:"duration,omitempty" example:"5m"`
	OrderIndex int                `json:"order_index" example:"1"`
}

// QuizRequest carries questions and the passing threshold
type QuizRequest struct {
	Questions    []models.QuizQuestion `json:"questions" binding:"required"`
	PassingScore *int                  `json:"passing_score" binding:"required,min=0,max=100" example:"70"`
}

// AddModuleRequest appends a module to an existing course
type AddModuleRequest struct {
	CourseID    int64  `json:"course_id" binding:"required,min=1"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" binding:"omitempty,min=1"`
}

// AddContentRequest appends a content item to an existing module
type AddContentRequest struct {
	ModuleID int64 `json:"module_id" binding:"required,min=1"`
	CreateContentRequest
}

// CreateCourseResponse acknowledges a created course tree
type CreateCourseResponse struct {
	Message  string `json:"message" example:"Course created successfully"`
	CourseID int64  `json:"courseId" example:"1"`
}

// IDResponse returns the identifier of a created row
type IDResponse struct {
	ID int64 `json:"id" example:"1"`
}

// ToDraft converts the request into a course draft owned by instructorID
func (r *CreateCourseRequest) ToDraft(instructorID int64) models.CourseDraft {
	draft := models.CourseDraft{
		Course: models.Course{
			Title:        r.Title,
			Description:  r.Description,
			Category:     r.Category,
			Difficulty:   r.Difficulty,
			InstructorID: instructorID,
		},
		Modules: make([]models.ModuleDraft, 0, len(r.Modules)),
	}
	for _, m := range r.Modules {
		md := models.ModuleDraft{
			Module: models.Module{
				Title:       m.Title,
				Description: m.Description,
				OrderIndex:  m.OrderIndex,
			},
		}
		for _, c := range m.Contents {
			md.Contents = append(md.Contents, c.ToModel(0))
		}
		if m.Quiz != nil {
			q := m.Quiz.ToModel(0)
			md.Quiz = &q
		}
		draft.Modules = append(draft.Modules, md)
	}
	return draft
}

// ToModel maps the request onto a content item of moduleID
func (r *CreateContentRequest) ToModel(moduleID int64) models.ContentItem {
	return models.ContentItem{
		ModuleID:   moduleID,
		Type:       r.Type,
		URL:        r.URL,
		Duration:   r.Duration,
		OrderIndex: r.OrderIndex,
	}
}

// ToModel maps the request onto a quiz of moduleID
func (r *QuizRequest) ToModel(moduleID int64) models.Quiz {
	score := models.DefaultPassingScore
	if r.PassingScore != nil {
		score = *r.PassingScore
	}
	return models.Quiz{
		ModuleID:     moduleID,
		Questions:    r.Questions,
		PassingScore: score,
	}
}
