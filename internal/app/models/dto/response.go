package dto

import "time"

// APIResponse is the envelope wrapped around every JSON success payload
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in the standard envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	}
}

// MessageResponse represents a standard acknowledgement for API endpoints
type MessageResponse struct {
	Message string `json:"message" example:"Course deleted"`
}

// HealthResponse reports dependency health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
	Cache    string `json:"cache,omitempty" example:"disabled"`
}
