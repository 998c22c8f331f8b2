package vault

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateOrToday returns value as an ISO date, or the local date of now when value is blank.
// Only the shape is checked; "2024-13-40" passes through to the vault.
func DateOrToday(value string, now time.Time) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return now.Format(dateLayout), nil
	}
	if !isoDate.MatchString(text) {
		return "", &ValidationError{Field: "date", Msg: "must be YYYY-MM-DD (or omit it to default to today)"}
	}
	return text, nil
}

// ToMinute converts "HH:MM" to minutes since midnight.
func ToMinute(value, field string) (int, error) {
	hourText, minuteText, ok := strings.Cut(value, ":")
	if !ok {
		return 0, &ValidationError{Field: field, Msg: "must be HH:MM"}
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourText))
	if err != nil {
		return 0, &ValidationError{Field: field, Msg: "must be HH:MM", Err: err}
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minuteText))
	if err != nil {
		return 0, &ValidationError{Field: field, Msg: "must be HH:MM", Err: err}
	}
	if hour < 0 || hour > 23 {
		return 0, invalid(field, "hour must be in 0..23")
	}
	if minute < 0 || minute > 59 {
		return 0, invalid(field, "minute must be in 0..59")
	}
	return hour*60 + minute, nil
}
