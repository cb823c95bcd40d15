package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Email        string    `json:"email" db:"email" example:"ada@example.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name" example:"Ada Lovelace"`
	Role         RoleType  `json:"role" db:"role" example:"student"`
	Interests    []string  `json:"interests" db:"interests"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
