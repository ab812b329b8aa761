package booking

type Error string

const (
	ErrDoctorNotFound        = "doctor not found"
	ErrAppointmentNotFound   = "appointment not found"
	ErrInvalidIdentifier     = "invalid identifier"
	ErrSlotTaken             = "chosen slot is already taken"
	ErrPastTime              = "cannot book an appointment in the past"
	ErrFutureAppointment     = "cannot mark a future appointment as no-show"
	ErrAlreadyTerminal       = "appointment is already in a terminal status"
	ErrInvalidTransition     = "invalid status transition"
	ErrOnlyPatientCanBook    = "only a patient can book an appointment"
	ErrPatientsMayOnlyCancel = "patients may only cancel their own appointments"
)

func (e Error) Error() string {
	return string(e)
}
