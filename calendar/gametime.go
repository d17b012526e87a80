package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Date formats seen in league spreadsheets. Month and day names match
// case-insensitively, single digits are accepted for month, day and hour.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Monday, January 2, 2006",
	"Monday January 2, 2006",
	"Mon, Jan 2, 2006",
	"Mon Jan 2, 2006",
	"Mon 1/2/2006",
	"Mon, 1/2/2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Yearless dates take the year of the reference clock.
var yearlessLayouts = []string{
	"1/2",
	"Mon 1/2",
	"Mon, 1/2",
	"January 2",
	"Jan 2",
	"Monday, January 2",
	"Mon, Jan 2",
	"Mon Jan 2",
	"2 January",
	"2 Jan",
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"3 PM",
}

var meridiem = regexp.MustCompile(`(\d)\s*([AP])\.?M\.?`)

var spaces = regexp.MustCompile(`\s+`)

// ParseGameTime combines the Date and Time cells into a wall-clock time. The
// result is in UTC only as a carrier; it is emitted as a floating local time.
// A date without a year falls in the year of now. An empty Time cell means
// midnight; any other Time cell must be a recognizable clock time.
func ParseGameTime(date, clock string, now time.Time) (time.Time, error) {
	date = normalize(date)
	clock = normalize(clock)

	if date == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	day, err := parseDate(date, now.Year())
	if err != nil {
		return time.Time{}, err
	}
	if clock == "" {
		return day, nil
	}

	tod, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC), nil
}

func parseDate(value string, year int) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return withYear(t, year)
		}
	}

	if !strings.ContainsAny(value, "0123456789") {
		return time.Time{}, fmt.Errorf("no date in %q", value)
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date format: %w", err)
	}
	if t.Year() == 0 {
		return withYear(t, year)
	}
	return t, nil
}

func parseClock(value string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

// withYear moves t into year, failing for Feb 29 outside leap years.
func withYear(t time.Time, year int) (time.Time, error) {
	moved := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	if moved.Month() != t.Month() || moved.Day() != t.Day() {
		return time.Time{}, fmt.Errorf("%s %d does not exist in %d", t.Month(), t.Day(), year)
	}
	return moved, nil
}

func normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = spaces.ReplaceAllString(s, " ")
	return meridiem.ReplaceAllString(s, "$1 ${2}M")
}
