package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DateKeyLayout is the calendar bucket format
const DateKeyLayout = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// UTCDateKey returns the UTC calendar date of t.
func UTCDateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}
