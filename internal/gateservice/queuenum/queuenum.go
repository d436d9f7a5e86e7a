// Package queuenum formats and parses daily queue numbers of the form
// Qyymmddnn, e.g. Q25011701 for the first truck on 2025-01-17.
package queuenum

import (
	"fmt"
	"strconv"
	"time"
)

// Format renders a queue number for the given date and 1-based daily
// sequence. The sequence is zero-padded to two digits; sequences above 99
// widen the suffix instead of truncating.
func Format(t time.Time, seq int) string {
	return fmt.Sprintf("Q%02d%02d%02d%02d", t.Year()%100, int(t.Month()), t.Day(), seq)
}

// Parse recovers the date and sequence from a queue number produced by
// Format. Two-digit years map into 2000-2099.
func Parse(s string) (time.Time, int, error) {
	if len(s) < 9 || s[0] != 'Q' {
		return time.Time{}, 0, fmt.Errorf("malformed queue number %q", s)
	}
	digits := s[1:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return time.Time{}, 0, fmt.Errorf("malformed queue number %q", s)
		}
	}

	year, _ := strconv.Atoi(digits[0:2])
	month, _ := strconv.Atoi(digits[2:4])
	day, _ := strconv.Atoi(digits[4:6])
	seq, err := strconv.Atoi(digits[6:])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("malformed queue number %q", s)
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || seq < 1 {
		return time.Time{}, 0, fmt.Errorf("queue number %q out of range", s)
	}

	date := time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	return date, seq, nil
}
