// Package coords decodes roadbook coordinates written as degrees and decimal
// minutes, e.g. "45°30,5" with a separate hemisphere cell ("N", "S", "E", "W").
package coords

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidFormat  = errors.New("invalid degrees and minutes format")
	ErrInvalidDegrees = errors.New("invalid degrees")
	ErrInvalidMinutes = errors.New("invalid minutes")
)

const degreeSign = "°"

// Latitude decodes a latitude token; any hemisphere text without "N" is south.
func Latitude(token, hemisphere string) (float32, error) {
	return Decode(token, hemisphere, "N")
}

// Longitude decodes a longitude token; any hemisphere text without "E" is west.
func Longitude(token, hemisphere string) (float32, error) {
	return Decode(token, hemisphere, "E")
}

// Decode converts "D°M,m" into signed decimal degrees. The result is negated
// unless hemisphere contains positive.
func Decode(token, hemisphere, positive string) (float32, error) {
	parts := strings.Split(token, degreeSign)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}

	degrees, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDegrees, parts[0])
	}

	minutesText := strings.ReplaceAll(parts[1], ",", ".")
	minutes, err := strconv.ParseFloat(strings.TrimSpace(minutesText), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinutes, parts[1])
	}

	value := degrees + minutes/60.0
	if !strings.Contains(hemisphere, positive) {
		value = -value
	}

	return float32(value), nil
}
