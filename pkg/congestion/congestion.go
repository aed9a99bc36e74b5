// Package congestion maps an hour of the day to a travel-time multiplier.
package congestion

import (
	"errors"
	"fmt"
)

// ErrInvalidHour is returned for hours outside 0-23.
var ErrInvalidHour = errors.New("congestion: hour must be between 0 and 23")

const (
	Peak     = 1.5 // 07-09 and 16-18
	Moderate = 1.2 // 10-15
	Free     = 1.0
)

// Congestion returns the multiplier for an hour in 0-23. Hours outside the
// range fall through to Free; use ValidateHour first.
func Congestion(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9, hour >= 16 && hour <= 18:
		return Peak
	case hour >= 10 && hour <= 15:
		return Moderate
	default:
		return Free
	}
}

func ValidateHour(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour %d: %w", hour, ErrInvalidHour)
	}
	return nil
}

// Model yields the multiplier applied to every route weight for a query.
type Model interface {
	Multiplier(hour int) (float64, error)
}

// TimeOfDay is the fixed rush-hour table.
type TimeOfDay struct{}

func (TimeOfDay) Multiplier(hour int) (float64, error) {
	if err := ValidateHour(hour); err != nil {
		return 0, err
	}
	return Congestion(hour), nil
}

// Level names a multiplier for display.
func Level(m float64) string {
	switch {
	case m >= Peak:
		return "peak"
	case m > Free:
		return "moderate"
	default:
		return "free-flow"
	}
}
