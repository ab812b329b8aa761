package availability

import (
	"doctor-booking/internal/apierrors"
	"doctor-booking/internal/schedule"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// dateLayout is the wire format of calendar dates, without a time component.
const dateLayout = "2006-01-02"

type Doctor struct {
	ID        int64     `json:"-" dbfield:"id"`
	UUID      uuid.UUID `json:"uuid" dbfield:"uuid"`
	UserID    int64     `json:"-" dbfield:"user_id"`
	Name      string    `json:"name" dbfield:"name"`
	Specialty string    `json:"specialty,omitempty" dbfield:"specialty"`
	Schedule  string    `json:"-" dbfield:"schedule"`
}

// Template parses the doctor's stored weekly schedule. An empty column means
// the doctor has no working hours yet.
func (d Doctor) Template() (schedule.WeeklyTemplate, error) {
	template := make(schedule.WeeklyTemplate)
	if d.Schedule == "" {
		return template, nil
	}
	if err := json.Unmarshal([]byte(d.Schedule), &template); err != nil {
		return nil, fmt.Errorf("could not parse the stored schedule: %w", err)
	}
	return template, nil
}

type Leave struct {
	ID        int64     `json:"-" dbfield:"id"`
	UUID      uuid.UUID `json:"uuid" dbfield:"uuid"`
	DoctorID  int64     `json:"-" dbfield:"doctor_id"`
	StartDate time.Time `json:"start_date" dbfield:"start_date"`
	EndDate   time.Time `json:"end_date" dbfield:"end_date"`
	Reason    *string   `json:"reason,omitempty" dbfield:"reason"`
}

type LeaveRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`
}

// Validate checks if the given request carries a well-formed, ordered period.
func (l LeaveRequest) Validate() error {
	if l.StartDate == "" {
		return apierrors.NewValidationError("start_date", "required")
	}
	if l.EndDate == "" {
		return apierrors.NewValidationError("end_date", "required")
	}
	start, err := time.ParseInLocation(dateLayout, l.StartDate, time.Local)
	if err != nil {
		return apierrors.NewValidationError("start_date", "must be formatted as YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, l.EndDate, time.Local)
	if err != nil {
		return apierrors.NewValidationError("end_date", "must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return apierrors.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}

// Period returns the request's period as instants: the first moment of the
// start day and the first moment of the end day. Call Validate first.
func (l LeaveRequest) Period() (time.Time, time.Time) {
	start, _ := time.ParseInLocation(dateLayout, l.StartDate, time.Local)
	end, _ := time.ParseInLocation(dateLayout, l.EndDate, time.Local)
	return start, end
}

// SlotsMeta describes the slot computation behind a slot listing.
type SlotsMeta struct {
	DoctorUUID     uuid.UUID `json:"doctor_id"`
	Date           string    `json:"date"`
	DayOfWeek      string    `json:"day_of_week"`
	TotalSlots     int       `json:"total_slots"`
	BookedSlots    int       `json:"booked_slots"`
	AvailableSlots int       `json:"available_slots"`
	IsOnLeave      bool      `json:"is_on_leave"`
}

// Availability is the full availability picture of a doctor.
type Availability struct {
	Doctor   *Doctor                 `json:"doctor"`
	Schedule schedule.WeeklyTemplate `json:"schedule"`
	Leaves   []*Leave                `json:"leaves"`
}

// Response is the envelope returned on success.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}
