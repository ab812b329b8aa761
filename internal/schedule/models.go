// Package schedule contains the doctor's weekly working-hours template and
// the slot generation derived from it.
package schedule

import (
	"doctor-booking/internal/apierrors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SlotDurationMinutes is the fixed length of a bookable slot.
const SlotDurationMinutes = 30

var rangePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])-([01][0-9]|2[0-3]):([0-5][0-9])$`)

// WeeklyTemplate maps a canonical day key to its ordered list of
// "HH:MM-HH:MM" working ranges. A missing or empty day means the doctor is
// closed that day.
type WeeklyTemplate map[string][]string

// TimeRange is a working range within a day, in minutes since midnight.
type TimeRange struct {
	Start int
	End   int
}

// Contains checks if the given minute of day falls inside the range. The end
// bound is exclusive, matching the slot generation walk.
func (r TimeRange) Contains(minuteOfDay int) bool {
	return minuteOfDay >= r.Start && minuteOfDay < r.End
}

// Validate validates the template: only canonical day keys, every entry
// matching HH:MM-HH:MM with start strictly before end, and no overlapping
// ranges within a day.
func (t WeeklyTemplate) Validate() error {
	for day, entries := range t {
		if !IsCanonicalDay(day) {
			return apierrors.NewValidationError("schedule", fmt.Sprintf("unknown day %q", day))
		}
		ranges := make([]TimeRange, 0, len(entries))
		for _, entry := range entries {
			parsed, err := parseRange(entry)
			if err != nil {
				return apierrors.NewValidationError("schedule", fmt.Sprintf("%s: %s", day, err))
			}
			ranges = append(ranges, parsed)
		}
		for i := range ranges {
			for j := i + 1; j < len(ranges); j++ {
				if ranges[i].Start < ranges[j].End && ranges[j].Start < ranges[i].End {
					return apierrors.NewValidationError("schedule", fmt.Sprintf("%s: ranges %q and %q overlap", day, entries[i], entries[j]))
				}
			}
		}
	}
	return nil
}

// RangesFor returns the parsed ranges of the given day, in the template's
// declared order. Missing day or malformed entries yield no ranges.
func (t WeeklyTemplate) RangesFor(day string) []TimeRange {
	entries, ok := t[day]
	if !ok {
		return nil
	}
	ranges := make([]TimeRange, 0, len(entries))
	for _, entry := range entries {
		parsed, err := parseRange(entry)
		if err != nil {
			continue
		}
		ranges = append(ranges, parsed)
	}
	return ranges
}

func parseRange(entry string) (TimeRange, error) {
	if !rangePattern.MatchString(entry) {
		return TimeRange{}, fmt.Errorf("entry %q does not match HH:MM-HH:MM", entry)
	}
	parts := strings.SplitN(entry, "-", 2)
	start := mustParseMinutes(parts[0])
	end := mustParseMinutes(parts[1])
	if start >= end {
		return TimeRange{}, fmt.Errorf("entry %q must start before it ends", entry)
	}
	return TimeRange{Start: start, End: end}, nil
}

// mustParseMinutes converts an already pattern-checked HH:MM to minutes since midnight.
func mustParseMinutes(timeOfDay string) int {
	hour, _ := strconv.Atoi(timeOfDay[:2])
	minute, _ := strconv.Atoi(timeOfDay[3:])
	return hour*60 + minute
}

// FormatMinutes converts minutes since midnight back to HH:MM.
func FormatMinutes(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}
