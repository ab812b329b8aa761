package booking

import (
	"doctor-booking/internal/apierrors"
	"doctor-booking/internal/schedule"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of appointment statuses. Any other value is
// rejected when the request is decoded.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// ParseStatus parses the given value into a Status.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return Status(value), nil
	}
	return "", apierrors.NewValidationError("statut", fmt.Sprintf("unknown status %q", value))
}

// IsTerminal checks if no further transition is allowed from the status.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// IsActive checks if the status occupies its slot: only pending and confirmed
// appointments count for conflicts.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Doctor struct {
	ID     int64     `json:"-" dbfield:"id"`
	UUID   uuid.UUID `json:"uuid" dbfield:"uuid"`
	UserID int64     `json:"-" dbfield:"user_id"`
}

type Patient struct {
	ID     int64     `json:"-" dbfield:"id"`
	UUID   uuid.UUID `json:"uuid" dbfield:"uuid"`
	UserID int64     `json:"-" dbfield:"user_id"`
}

type Appointment struct {
	ID        int64     `json:"-" dbfield:"id"`
	UUID      uuid.UUID `json:"uuid" dbfield:"uuid"`
	DoctorID  int64     `json:"-" dbfield:"doctor_id"`
	PatientID int64     `json:"-" dbfield:"patient_id"`
	DateHeure time.Time `json:"date_heure" dbfield:"date_heure"`
	Status    Status    `json:"statut" dbfield:"statut"`
}

type BookingRequest struct {
	DateHeure time.Time `json:"date_heure"`
}

// Validate checks if the given request is valid.
func (b BookingRequest) Validate() error {
	if b.DateHeure.IsZero() {
		return apierrors.NewValidationError("date_heure", "required")
	}
	return nil
}

type TransitionRequest struct {
	Statut string `json:"statut"`
}

type NoShowRequest struct {
	Reason *string `json:"reason"`
}

// Response is the envelope returned on success.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// FitsTemplate checks if the appointment instant's time-of-day falls inside
// one of the template's ranges for its weekday.
func FitsTemplate(dateHeure time.Time, template schedule.WeeklyTemplate) bool {
	day := schedule.DayName(dateHeure.Weekday())
	minuteOfDay := dateHeure.Hour()*60 + dateHeure.Minute()
	for _, workingRange := range template.RangesFor(day) {
		if workingRange.Contains(minuteOfDay) {
			return true
		}
	}
	return false
}
