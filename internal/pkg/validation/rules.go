package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// Content durations look like "5m" or "30s", at most nine digits
	DurationPattern = `^\d{1,9}[ms]$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Duration *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Duration: regexp.MustCompile(DurationPattern),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)
	if value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}
	return true
}

// Numeric validation over a closed range
type NumericValidation struct {
	Value float64
	Min   float64
	Max   float64
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value float64) *NumericValidation {
	return &NumericValidation{Value: value}
}

// Between sets the inclusive bounds
func (v *NumericValidation) Between(min, max float64) *NumericValidation {
	v.Min = min
	v.Max = max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	return v.Value >= v.Min && v.Value <= v.Max
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidName checks a display name's length
func IsValidName(name string) bool {
	return NewStringValidation(name).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate()
}

// IsValidDuration accepts an optional content duration such as "5m" or "30s"
func IsValidDuration(duration *string) bool {
	if duration == nil {
		return true
	}
	return NewStringValidation(*duration).
		WithRequired(false).
		WithPattern(CompiledPatterns.Duration).
		Validate()
}

// IsValidScore reports whether score is a percentage in [0, 100]
func IsValidScore(score float64) bool {
	return NewNumericValidation(score).Between(0, 100).Validate()
}

// IsValidPassword checks the minimum password length
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}

// IsValidEmail checks an address against EmailPattern, case-insensitively
func IsValidEmail(email string) bool {
	return NewStringValidation(strings.ToLower(email)).
		WithPattern(CompiledPatterns.Email).
		Validate()
}
