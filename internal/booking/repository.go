package booking

import (
	"context"
	"database/sql"
	"doctor-booking/internal/database"
	"doctor-booking/internal/schedule"
	"time"

	"github.com/google/uuid"
)

const (
	findDoctorByUUIDQuery      = "SELECT id, uuid, user_id FROM tb_doctor WHERE uuid = $1"
	findPatientByUserIDQuery   = "SELECT id, uuid, user_id FROM tb_patient WHERE user_id = $1"
	findAppointmentByUUIDQuery = "SELECT id, uuid, doctor_id, patient_id, date_heure, statut FROM tb_appointment WHERE uuid = $1"
	listBookedTimesQuery       = "SELECT id, uuid, doctor_id, patient_id, date_heure, statut FROM tb_appointment WHERE doctor_id = $1 AND date_heure >= $2 AND date_heure < $3 AND statut IN ('pending', 'confirmed') ORDER BY date_heure"
	countActiveAtQuery         = "SELECT COUNT(id) FROM tb_appointment WHERE doctor_id = $1 AND date_heure = $2 AND statut IN ('pending', 'confirmed')"
	insertAppointmentQuery     = "INSERT INTO tb_appointment (uuid, doctor_id, patient_id, date_heure, statut) VALUES ($1, $2, $3, $4, $5)"
	countActiveInRangeQuery    = "SELECT COUNT(id) FROM tb_appointment WHERE doctor_id = $1 AND date_heure BETWEEN $2 AND $3 AND statut IN ('pending', 'confirmed')"
	listActiveFromQuery        = "SELECT id, uuid, doctor_id, patient_id, date_heure, statut FROM tb_appointment WHERE doctor_id = $1 AND date_heure >= $2 AND statut IN ('pending', 'confirmed') ORDER BY date_heure"
	listStaleActiveQuery       = "SELECT id, uuid, doctor_id, patient_id, date_heure, statut FROM tb_appointment WHERE statut IN ('pending', 'confirmed') AND date_heure < $1 ORDER BY date_heure"
	updateAppointmentQuery     = "UPDATE tb_appointment SET statut = $1 WHERE id = $2"
)

// Ledger provides access to appointment data. It is the single writer of
// tb_appointment; the availability context reads booked slots through it.
type Ledger interface {

	// FindDoctorByUUID finds a doctor by its UUID.
	FindDoctorByUUID(ctx context.Context, doctorUUID uuid.UUID) (*Doctor, error)

	// FindPatientByUserID finds the patient record owned by the given user.
	FindPatientByUserID(ctx context.Context, userID int64) (*Patient, error)

	// FindAppointmentByUUID finds an appointment by its UUID.
	FindAppointmentByUUID(ctx context.Context, appointmentUUID uuid.UUID) (*Appointment, error)

	// BookedTimes returns the start times, formatted as HH:MM, of the active
	// appointments of the given doctor on the given day.
	BookedTimes(ctx context.Context, doctorID int64, date time.Time) ([]string, error)

	// Reserve inserts a pending appointment at the given instant, failing with
	// ErrSlotTaken if an active appointment already holds it. The check and the
	// insert run in one transaction, and the partial unique index on
	// (doctor_id, date_heure) backs the check under concurrency.
	Reserve(ctx context.Context, doctorID int64, patientID int64, dateHeure time.Time) (*Appointment, error)

	// HasActiveAppointmentInRange checks if the doctor has any active
	// appointment between the given instants, bounds included.
	HasActiveAppointmentInRange(ctx context.Context, doctorID int64, start time.Time, end time.Time) (bool, error)

	// AppointmentsOutsideTemplate returns the doctor's active appointments from
	// the given instant onwards that would not fit the given weekly template.
	AppointmentsOutsideTemplate(ctx context.Context, doctorID int64, template schedule.WeeklyTemplate, from time.Time) ([]*Appointment, error)

	// ListStaleActive returns every active appointment older than the cutoff.
	ListStaleActive(ctx context.Context, cutoff time.Time) ([]*Appointment, error)

	// UpdateAppointmentStatus sets the status of the given appointment.
	UpdateAppointmentStatus(ctx context.Context, appointmentID int64, status Status) error
}

type defaultLedger struct {
	dbConn database.Connection
}

// NewLedger creates a new Ledger.
func NewLedger(dbConn database.Connection) Ledger {
	return &defaultLedger{dbConn: dbConn}
}

func (d defaultLedger) FindDoctorByUUID(ctx context.Context, doctorUUID uuid.UUID) (*Doctor, error) {
	params := make([]interface{}, 1)
	params[0] = doctorUUID.String()
	rows, err := d.dbConn.DB().QueryContext(ctx, findDoctorByUUIDQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	doctor := new(Doctor)
	for rows.Next() {
		if err = database.TransformRow(rows, doctor); err != nil {
			return nil, err
		}
		if doctor.ID > 0 {
			return doctor, nil
		}
	}
	return nil, nil
}

func (d defaultLedger) FindPatientByUserID(ctx context.Context, userID int64) (*Patient, error) {
	params := make([]interface{}, 1)
	params[0] = userID
	rows, err := d.dbConn.DB().QueryContext(ctx, findPatientByUserIDQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	patient := new(Patient)
	for rows.Next() {
		if err = database.TransformRow(rows, patient); err != nil {
			return nil, err
		}
		if patient.ID > 0 {
			return patient, nil
		}
	}
	return nil, nil
}

func (d defaultLedger) FindAppointmentByUUID(ctx context.Context, appointmentUUID uuid.UUID) (*Appointment, error) {
	params := make([]interface{}, 1)
	params[0] = appointmentUUID.String()
	rows, err := d.dbConn.DB().QueryContext(ctx, findAppointmentByUUIDQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	appointment := new(Appointment)
	for rows.Next() {
		if err = database.TransformRow(rows, appointment); err != nil {
			return nil, err
		}
		if appointment.ID > 0 {
			return appointment, nil
		}
	}
	return nil, nil
}

func (d defaultLedger) BookedTimes(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	params := make([]interface{}, 3)
	params[0] = doctorID
	params[1] = dayStart
	params[2] = dayStart.AddDate(0, 0, 1)
	rows, err := d.dbConn.DB().QueryContext(ctx, listBookedTimesQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	var times []string
	for rows.Next() {
		appointment := new(Appointment)
		if err = database.TransformRow(rows, appointment); err != nil {
			return nil, err
		}
		times = append(times, appointment.DateHeure.Format("15:04"))
	}
	return times, nil
}

func (d defaultLedger) Reserve(ctx context.Context, doctorID int64, patientID int64, dateHeure time.Time) (*Appointment, error) {
	tx, err := d.dbConn.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	count := new(int64)
	if err = tx.QueryRowContext(ctx, countActiveAtQuery, doctorID, dateHeure).Scan(count); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if *count > 0 {
		_ = tx.Rollback()
		return nil, Error(ErrSlotTaken)
	}
	appointment := &Appointment{
		UUID:      uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		DateHeure: dateHeure,
		Status:    StatusPending,
	}
	_, err = tx.ExecContext(ctx, insertAppointmentQuery, appointment.UUID.String(), doctorID, patientID, dateHeure, string(StatusPending))
	if err != nil {
		_ = tx.Rollback()
		if database.IsUniqueViolation(err) {
			return nil, Error(ErrSlotTaken)
		}
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (d defaultLedger) HasActiveAppointmentInRange(ctx context.Context, doctorID int64, start time.Time, end time.Time) (bool, error) {
	params := make([]interface{}, 3)
	params[0] = doctorID
	params[1] = start
	params[2] = end
	row := d.dbConn.DB().QueryRowContext(ctx, countActiveInRangeQuery, params...)
	if row.Err() != nil {
		return false, row.Err()
	}
	count := new(int64)
	if err := row.Scan(count); err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return *count > 0, nil
}

func (d defaultLedger) AppointmentsOutsideTemplate(ctx context.Context, doctorID int64, template schedule.WeeklyTemplate, from time.Time) ([]*Appointment, error) {
	params := make([]interface{}, 2)
	params[0] = doctorID
	params[1] = from
	rows, err := d.dbConn.DB().QueryContext(ctx, listActiveFromQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	var outside []*Appointment
	for rows.Next() {
		appointment := new(Appointment)
		if err = database.TransformRow(rows, appointment); err != nil {
			return nil, err
		}
		if !FitsTemplate(appointment.DateHeure, template) {
			outside = append(outside, appointment)
		}
	}
	return outside, nil
}

func (d defaultLedger) ListStaleActive(ctx context.Context, cutoff time.Time) ([]*Appointment, error) {
	params := make([]interface{}, 1)
	params[0] = cutoff
	rows, err := d.dbConn.DB().QueryContext(ctx, listStaleActiveQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	var stale []*Appointment
	for rows.Next() {
		appointment := new(Appointment)
		if err = database.TransformRow(rows, appointment); err != nil {
			return nil, err
		}
		stale = append(stale, appointment)
	}
	return stale, nil
}

func (d defaultLedger) UpdateAppointmentStatus(ctx context.Context, appointmentID int64, status Status) error {
	params := make([]interface{}, 2)
	params[0] = string(status)
	params[1] = appointmentID
	_, err := d.dbConn.DB().ExecContext(ctx, updateAppointmentQuery, params...)
	return err
}
