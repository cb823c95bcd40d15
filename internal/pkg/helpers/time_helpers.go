package helpers

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ContentSeconds converts a content duration such as "5m" or "30s" to seconds.
// Nil, empty, negative, overflowing or otherwise malformed values count as zero.
func ContentSeconds(duration *string) int64 {
	if duration == nil {
		return 0
	}
	s := strings.TrimSpace(*duration)
	if len(s) < 2 {
		return 0
	}

	var unit int64
	switch s[len(s)-1] {
	case 'm':
		unit = 60
	case 's':
		unit = 1
	default:
		return 0
	}

	digits := s[:len(s)-1]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > math.MaxInt64/unit {
		return 0
	}
	return n * unit
}
