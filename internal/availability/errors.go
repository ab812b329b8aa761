package availability

type Error string

const (
	ErrDoctorNotFound          = "doctor not found"
	ErrLeaveNotFound           = "leave not found"
	ErrNoDoctorRecord          = "no doctor record associated with the user"
	ErrInvalidIdentifier       = "invalid identifier"
	ErrLeaveStartsInPast       = "leave cannot start in the past"
	ErrLeaveHasAppointments    = "doctor has active appointments during the leave"
	ErrScheduleHasAppointments = "existing appointments fall outside the new schedule"
)

func (e Error) Error() string {
	return string(e)
}
