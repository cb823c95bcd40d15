package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "student"
	RoleInstructor RoleType = "instructor"
	RoleAdmin      RoleType = "admin"
)

// ParseRole returns the matching role, falling back to student for anything unknown
func ParseRole(s string) RoleType {
	switch RoleType(s) {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return RoleType(s)
	default:
		return RoleStudent
	}
}

// Limits shared by the quiz and progress ledgers
const (
	MaxQuizAttempts     = 3
	DefaultPassingScore = 70
	MinRating           = 1
	MaxRating           = 5
	CompleteProgress    = 100.0
)
