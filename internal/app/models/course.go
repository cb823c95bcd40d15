package models

import "time"

// Course is an instructor-owned catalog entry. Rating is the denormalised average of all ratings.
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Category     string    `json:"category" db:"category"`
	Difficulty   string    `json:"difficulty" db:"difficulty"`
	InstructorID int64     `json:"instructor_id" db:"instructor_id"`
	Rating       float64   `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Module groups content items and at most one quiz inside a course
type Module struct {
	ID          int64  `json:"id" db:"id"`
	CourseID    int64  `json:"course_id" db:"course_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	OrderIndex  int    `json:"order_index" db:"order_index"`
}

// ContentType is the kind of authored content
type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentPDF     ContentType = "pdf"
	ContentArticle ContentType = "article"
)

// Valid reports whether t is a supported authored content type
func (t ContentType) Valid() bool {
	switch t {
	case ContentVideo, ContentPDF, ContentArticle:
		return true
	}
	return false
}

// ContentItem is a single authored piece of module content. Duration is free text such as "5m" or "30s".
type ContentItem struct {
	ID         int64       `json:"id" db:"id"`
	ModuleID   int64       `json:"module_id" db:"module_id"`
	Type       ContentType `json:"type" db:"type"`
	URL        string      `json:"url" db:"url"`
	Duration   *string     `json:"duration" db:"duration"`
	OrderIndex int         `json:"order_index" db:"order_index"`
}

// QuizQuestion is one multiple-choice question
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz belongs to exactly one module
type Quiz struct {
	ID           int64          `json:"id" db:"id"`
	ModuleID     int64          `json:"module_id" db:"module_id"`
	CourseID     int64          `json:"course_id" db:"course_id"`
	Questions    []QuizQuestion `json:"questions" db:"questions"`
	PassingScore int            `json:"passing_score" db:"passing_score"`
}

// ItemKind discriminates the entries of a module's content listing
type ItemKind string

const (
	ItemVideo   ItemKind = ItemKind(ContentVideo)
	ItemPDF     ItemKind = ItemKind(ContentPDF)
	ItemArticle ItemKind = ItemKind(ContentArticle)
	ItemQuiz    ItemKind = "quiz"
)

// ModuleItem is a tagged union: Content is set for authored kinds, Quiz for ItemQuiz.
type ModuleItem struct {
	Kind    ItemKind     `json:"kind"`
	Content *ContentItem `json:"content,omitempty"`
	Quiz    *Quiz        `json:"quiz,omitempty"`
}

// ContentModuleItem wraps an authored content item
func ContentModuleItem(c ContentItem) ModuleItem {
	return ModuleItem{Kind: ItemKind(c.Type), Content: &c}
}

// QuizModuleItem wraps a quiz
func QuizModuleItem(q Quiz) ModuleItem {
	return ModuleItem{Kind: ItemQuiz, Quiz: &q}
}

// ContentDuration is the slice of a content row the progress ledger needs
type ContentDuration struct {
	ContentID int64
	ModuleID  int64
	Duration  *string
}

// CourseDraft is a complete course authored in one request
type CourseDraft struct {
	Course  Course
	Modules []ModuleDraft
}

// ModuleDraft is a module with its content and optional quiz
type ModuleDraft struct {
	Module   Module
	Contents []ContentItem
	Quiz     *Quiz
}
