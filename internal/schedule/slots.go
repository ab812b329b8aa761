package schedule

// GenerateSlots produces the candidate slot start times (HH:MM) for the given
// day of the template, walking each range from start to end in
// slotDurationMinutes steps. A slot is emitted whenever its start is before
// the range's end; the slot's own end is deliberately not checked against the
// range, so the last slot of a range may run past closing time.
func GenerateSlots(template WeeklyTemplate, day string, slotDurationMinutes int) []string {
	slots := make([]string, 0)
	if slotDurationMinutes <= 0 {
		return slots
	}
	for _, workingRange := range template.RangesFor(day) {
		for current := workingRange.Start; current < workingRange.End; current += slotDurationMinutes {
			slots = append(slots, FormatMinutes(current))
		}
	}
	return slots
}
