package claim

import (
	"fmt"
	"strings"
	"time"
)

// Filter selects claims for List. Zero-valued fields are not applied;
// the remaining ones combine with logical AND.
type Filter struct {
	Status   Status
	Severity Severity
	Type     Type

	// Search matches description or resolved note as a case-insensitive
	// substring.
	Search string

	// From and To are inclusive bounds on created_at.
	From *time.Time
	To   *time.Time
}

// Validate rejects filters that name unknown members or invert the range.
func (f Filter) Validate() error {
	if f.Status != 0 && !f.Status.Known() {
		return fmt.Errorf("%w: unknown status %d", ErrInvalidFilter, int(f.Status))
	}
	if f.Severity != 0 && !f.Severity.Known() {
		return fmt.Errorf("%w: unknown severity %d", ErrInvalidFilter, int(f.Severity))
	}
	if f.Type != 0 && !f.Type.Known() {
		return fmt.Errorf("%w: unknown type %d", ErrInvalidFilter, int(f.Type))
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidFilter,
			f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	}
	return nil
}

// DateLayout is the ISO date form used for range bounds and digest names.
const DateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseRange parses an inclusive date range.
//
// Each bound is either an ISO date or an ISO date-time; times without a zone
// are read as UTC. A date-only upper bound covers the whole day. The range
// must not be inverted.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	start, err := ParseBound(from, false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseBound(to, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, from, to)
	}
	return start, end, nil
}

// ParseBound parses a single range bound. When upper is set, a date-only
// value is extended to the end of that day.
func ParseBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidRange)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		if upper {
			return EndOfDay(t), nil
		}
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q as a date", ErrInvalidRange, s)
}

// EndOfDay returns the last microsecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999999*time.Microsecond), t.Location())
}

// WeekStart returns midnight on the Monday of now's week.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
