package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestParseTimeBareDate(t *testing.T) {
    got, ok := ParseTime("2024-10-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestAlignFromTo(t *testing.T) {
    from := time.Date(2024, 10, 10, 14, 30, 0, 0, time.UTC) // Thursday
    to := time.Date(2024, 10, 17, 9, 15, 0, 0, time.UTC)

    gotFrom, gotTo := AlignFromTo(from, to, "daily")
    if !gotFrom.Equal(time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("daily from: %v", gotFrom)
    }
    if !gotTo.Equal(time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("daily to: %v", gotTo)
    }

    gotFrom, _ = AlignFromTo(from, to, "weekly")
    if !gotFrom.Equal(time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("weekly from should snap to Monday: %v", gotFrom)
    }

    gotFrom, _ = AlignFromTo(from, to, "monthly")
    if !gotFrom.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("monthly from should snap to first: %v", gotFrom)
    }

    gotFrom, gotTo = AlignFromTo(time.Time{}, to, "daily")
    if !gotFrom.IsZero() {
        t.Fatalf("zero time should pass through")
    }
    if gotTo.IsZero() {
        t.Fatalf("non-zero time should align")
    }
}