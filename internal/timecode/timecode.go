// Package timecode renders offsets into matched media for display.
//
// Episodes use M:SS.ss; movies and specials (no episode number) are longer,
// so they use H:MM:SS.ss.
package timecode

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOffset reports a negative, NaN, or infinite offset.
var ErrInvalidOffset = errors.New("timecode: offset must be a finite, non-negative number of seconds")

// Format renders seconds as H:MM:SS.ss when episodeNull is true and M:SS.ss
// otherwise. The seconds component is rounded half away from zero to two
// decimals; a rounded value of 60 carries into the minutes.
func Format(seconds float64, episodeNull bool) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "", ErrInvalidOffset
	}

	hundredths := int64(math.Round(seconds * 100))
	totalSeconds := hundredths / 100
	fraction := hundredths % 100
	secs := totalSeconds % 60

	if episodeNull {
		hours := totalSeconds / 3600
		minutes := (totalSeconds % 3600) / 60
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, fraction), nil
	}
	minutes := totalSeconds / 60
	return fmt.Sprintf("%d:%02d.%02d", minutes, secs, fraction), nil
}

// Range renders "from - to" using Format for both ends.
func Range(from, to float64, episodeNull bool) (string, error) {
	start, err := Format(from, episodeNull)
	if err != nil {
		return "", fmt.Errorf("range start: %w", err)
	}
	end, err := Format(to, episodeNull)
	if err != nil {
		return "", fmt.Errorf("range end: %w", err)
	}
	return start + " - " + end, nil
}

// Header returns the column label that matches Format's layout.
func Header(episodeNull bool) string {
	if episodeNull {
		return "Time (HH:MM:SS:MS)"
	}
	return "Time (MM:SS:MS)"
}
