package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, unix seconds, and a bare date.
// Returns (t, true) if any format worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t.UTC(), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// AlignFromTo snaps a time range to calendar boundaries for the bar
// period: day start for daily, Monday for weekly, first of month for
// monthly. Zero times pass through untouched.
func AlignFromTo(from, to time.Time, period string) (time.Time, time.Time) {
    align := func(t time.Time) time.Time {
        if t.IsZero() {
            return t
        }
        t = t.UTC()
        y, m, d := t.Date()
        switch period {
        case "weekly":
            day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
            offset := (int(day.Weekday()) + 6) % 7 // days since Monday
            return day.AddDate(0, 0, -offset)
        case "monthly":
            return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
        default:
            return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
        }
    }
    return align(from), align(to)
}
