package utils

import (
	"fmt"
	"time"
)

// ParseDurationString parses a duration config value like "15s" or "2h".
func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", value, err)
	}
	return d, nil
}
