package stats

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSince reports a since value that is neither a date nor a day count.
var ErrInvalidSince = errors.New("invalid since value (use YYYY-MM-DD or Nd)")

// ParseSince accepts a local calendar date (2024-03-10) or a number of days back from
// now (7d, meaning local midnight seven days ago). Empty input means no lower bound.
func ParseSince(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return nil, ErrInvalidSince
		}
		y, m, d := now.Date()
		t := time.Date(y, m, d-n, 0, 0, 0, 0, now.Location())
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return nil, ErrInvalidSince
	}
	return &t, nil
}
