package lifecycle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparsable marks a date/time pair that cannot be combined into an
// instant. Callers must treat it as "unknown instant", not as a fatal
// condition: such records are dropped from time-ordered views.
var ErrUnparsable = errors.New("unparsable appointment date/time")

const dateLayout = "2006-01-02"

// ParseInstant combines a calendar date and a time-of-day string into a
// single instant in loc (UTC when nil).
//
// date is YYYY-MM-DD; an embedded time suffix ("2024-01-10T09:00:00Z")
// is stripped, the backend occasionally sends full timestamps in the
// date field.
//
// timeOfDay is either 24-hour "HH:MM[:SS]" or 12-hour "hh:mm AM/PM"
// (case-insensitive, the space before the meridian is optional).
func ParseInstant(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	day, err := parseDate(date)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute, second, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, loc), nil
}

func parseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)

	// Normalize to date-only before combining with the time component.
	if i := strings.IndexAny(date, "T "); i > 0 {
		date = date[:i]
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrUnparsable, date)
	}
	return day, nil
}

func parseTimeOfDay(timeOfDay string) (hour, minute, second int, err error) {
	raw := strings.TrimSpace(timeOfDay)

	upper := strings.ToUpper(raw)
	meridian := ""
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		meridian = upper[len(upper)-2:]
		raw = strings.TrimSpace(raw[:len(raw)-2])
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
	}
	if meridian != "" && len(parts) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || len(p) > 2 || (i > 0 && len(p) != 2) {
			return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
		}
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
		}
		nums[i] = n
	}

	hour, minute = nums[0], nums[1]
	if len(nums) == 3 {
		second = nums[2]
	}

	if minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
	}

	if meridian == "" {
		if hour > 23 {
			return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
		}
		return hour, minute, second, nil
	}

	// 12-hour clock: 12 AM is midnight, 12 PM stays 12, other PM hours
	// shift by 12.
	if hour < 1 || hour > 12 {
		return 0, 0, 0, fmt.Errorf("%w: bad time %q", ErrUnparsable, timeOfDay)
	}
	if meridian == "AM" && hour == 12 {
		hour = 0
	} else if meridian == "PM" && hour != 12 {
		hour += 12
	}
	return hour, minute, second, nil
}

// Remaining reports the time left until instant. The second return is
// false once instant <= now, so display code never renders a negative
// duration.
func Remaining(now, instant time.Time) (time.Duration, bool) {
	if !instant.After(now) {
		return 0, false
	}
	return instant.Sub(now), true
}

// FormatRemaining renders a duration as "1h 30m left", dropping the
// hour segment when zero. Elapsed instants render as "Time passed",
// matching the booking card display string.
func FormatRemaining(d time.Duration, left bool) string {
	if !left {
		return "Time passed"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm left", hours, minutes)
	}
	return fmt.Sprintf("%dm left", minutes)
}
