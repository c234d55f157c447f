package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxDuration is the longest duration accepted, in seconds.
const maxDuration = math.MaxInt32

// wholeSeconds truncates a number of seconds to an int, rejecting negative,
// non-finite and out of range values.
func wholeSeconds(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxDuration {
		return 0, fmt.Errorf("duration: %v seconds out of range", f)
	}
	return int(f), nil
}

// ParseDuration converts a duration in Django text form
// ("[D ]HH:MM:SS[.ffffff]") or a plain number of seconds into whole seconds.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration: empty")
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return wholeSeconds(secs)
	}

	days := 0
	clock := s
	if i := strings.IndexByte(s, ' '); i >= 0 {
		d, err := strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil || d < 0 || d > maxDuration/86400 {
			return 0, fmt.Errorf("duration: bad days in %q", s)
		}
		days = d
		clock = strings.TrimSpace(s[i+1:])
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("duration: expected HH:MM:SS, got %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("duration: bad hours in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("duration: bad minutes in %q", s)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("duration: bad seconds in %q", s)
	}

	if hours > maxDuration/3600 {
		return 0, fmt.Errorf("duration: bad hours in %q", s)
	}
	return wholeSeconds(float64(days*86400+hours*3600+minutes*60) + seconds)
}

// FormatDuration renders seconds in the HH:MM:SS form.
func FormatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
