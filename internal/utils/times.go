package utils // package utils provides timestamp helpers shared across the service

import "time"

// TimeLayout is the canonical timestamp format used everywhere in the
// database and in API payloads: "YYYY-MM-DD HH:MM:SS" in UTC.
const TimeLayout = "2006-01-02 15:04:05"

// NowString returns the current UTC time formatted with TimeLayout.
func NowString() string {
	return time.Now().UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp into a UTC time.Time.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// HoursBetween returns the elapsed hours between two TimeLayout timestamps
// as a floating value. A negative result is possible when end precedes
// start; callers decide how to treat that.
func HoursBetween(start, end string) (float64, error) {
	a, err := ParseTime(start)
	if err != nil {
		return 0, err
	}
	b, err := ParseTime(end)
	if err != nil {
		return 0, err
	}
	return b.Sub(a).Seconds() / 3600.0, nil
}
