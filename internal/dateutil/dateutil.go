// Package dateutil formats dates the way service paperwork expects and
// computes deadline distances in calendar days.
package dateutil

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	militaryLayout = "02 Jan 2006"
	numericLayout  = "20060102"
	isoLayout      = "2006-01-02"
)

// FormatMilitary renders DD Mon YYYY. The zero time renders as "".
func FormatMilitary(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(militaryLayout)
}

// FormatNumeric renders YYYYMMDD, used in export file names.
func FormatNumeric(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(numericLayout)
}

// FormatISO renders YYYY-MM-DD for input fields.
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(isoLayout)
}

// FormatMilitaryPtr is FormatMilitary for optional dates.
func FormatMilitaryPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatMilitary(*t)
}

// FormatISOPtr is FormatISO for optional dates.
func FormatISOPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatISO(*t)
}

// ParseDate parses YYYY-MM-DD in loc. Blank input returns nil without error.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(isoLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

// civilDay maps t's calendar date to UTC midnight so day arithmetic is not
// skewed by DST transitions.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns calendar days from now until deadline, with the
// deadline read in now's location. Negative values mean the deadline passed.
func DaysUntil(deadline, now time.Time) int {
	target := civilDay(deadline.In(now.Location()))
	today := civilDay(now)
	return int(math.Ceil(target.Sub(today).Hours() / 24))
}

// RelativeTime describes how far away a deadline is.
func RelativeTime(deadline, now time.Time) string {
	days := DaysUntil(deadline, now)
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	case days <= 7:
		return fmt.Sprintf("%d days remaining", days)
	case days <= 30:
		return fmt.Sprintf("%d weeks remaining", ceilDiv(days, 7))
	default:
		return fmt.Sprintf("%d months remaining", ceilDiv(days, 30))
	}
}

// UrgentDays is the threshold at which a deadline is flagged.
const UrgentDays = 14

// IsUrgent reports whether the deadline is within UrgentDays.
func IsUrgent(deadline, now time.Time) bool {
	return DaysUntil(deadline, now) <= UrgentDays
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
