package schedule

import (
	"fmt"
	"strings"
	"time"
)

// dayNames is the fixed weekday-to-day-key mapping used everywhere a
// template is keyed or looked up.
var dayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

var canonicalDays = func() map[string]bool {
	days := make(map[string]bool, len(dayNames))
	for _, name := range dayNames {
		days[name] = true
	}
	return days
}()

// DayName returns the day key for the given weekday. A weekday outside the
// fixed map falls back to its lowercase English name.
func DayName(day time.Weekday) string {
	if name, ok := dayNames[day]; ok {
		return name
	}
	return strings.ToLower(day.String())
}

// StrictDayName is the strict variant of DayName: a weekday outside the
// fixed map is an error instead of a silent fallback.
func StrictDayName(day time.Weekday) (string, error) {
	if name, ok := dayNames[day]; ok {
		return name, nil
	}
	return "", fmt.Errorf("weekday %d has no mapped day name", int(day))
}

// IsCanonicalDay checks if the given name is one of the seven day keys.
func IsCanonicalDay(name string) bool {
	return canonicalDays[name]
}
