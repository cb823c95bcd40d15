package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
)

// ParseIDParam reads a positive integer path parameter
func ParseIDParam(ctx *gin.Context, name string) (int64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid " + name + " parameter")
	}
	return id, nil
}

// SplitCSV splits a comma separated query value, dropping blanks
func SplitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const (
	DefaultListLimit = 5
	MaxListLimit     = 50
)

// ClampLimit returns limit bounded to [1, MaxListLimit], using fallback when limit is not positive
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit
}
