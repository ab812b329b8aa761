package availability

import (
	"context"
	"database/sql"
	"doctor-booking/internal/database"
	"time"

	"github.com/google/uuid"
)

const (
	findDoctorByUUIDQuery     = "SELECT id, uuid, user_id, name, specialty, schedule FROM tb_doctor WHERE uuid = $1"
	findDoctorByUserIDQuery   = "SELECT id, uuid, user_id, name, specialty, schedule FROM tb_doctor WHERE user_id = $1"
	updateDoctorScheduleQuery = "UPDATE tb_doctor SET schedule = $1 WHERE id = $2"
	insertLeaveQuery          = "INSERT INTO tb_leave (uuid, doctor_id, start_date, end_date, reason) VALUES ($1, $2, $3, $4, $5)"
	listLeavesQuery           = "SELECT id, uuid, doctor_id, start_date, end_date, reason FROM tb_leave WHERE doctor_id = $1 ORDER BY start_date"
	findLeaveByUUIDQuery      = "SELECT id, uuid, doctor_id, start_date, end_date, reason FROM tb_leave WHERE uuid = $1"
	deleteLeaveQuery          = "DELETE FROM tb_leave WHERE id = $1"
	countLeavesCoveringQuery  = "SELECT COUNT(id) FROM tb_leave WHERE doctor_id = $1 AND $2 BETWEEN start_date AND end_date"
)

// Repository provides access to doctor schedule and leave data.
type Repository interface {

	// FindDoctorByUUID finds a doctor by its UUID.
	FindDoctorByUUID(ctx context.Context, doctorUUID uuid.UUID) (*Doctor, error)

	// FindDoctorByUserID finds the doctor record owned by the given user.
	FindDoctorByUserID(ctx context.Context, userID int64) (*Doctor, error)

	// UpdateDoctorSchedule stores the given schedule JSON for the doctor.
	UpdateDoctorSchedule(ctx context.Context, doctorID int64, scheduleJSON string) error

	// InsertLeave inserts the given leave.
	InsertLeave(ctx context.Context, leave *Leave) error

	// ListLeaves returns every leave of the given doctor, ordered by start date.
	ListLeaves(ctx context.Context, doctorID int64) ([]*Leave, error)

	// FindLeaveByUUID finds a leave by its UUID.
	FindLeaveByUUID(ctx context.Context, leaveUUID uuid.UUID) (*Leave, error)

	// DeleteLeave deletes the given leave.
	DeleteLeave(ctx context.Context, leaveID int64) error

	// IsOnLeave checks if the given day falls inside one of the doctor's leaves.
	IsOnLeave(ctx context.Context, doctorID int64, date time.Time) (bool, error)
}

type defaultRepository struct {
	dbConn database.Connection
}

// newRepository creates a new Repository.
func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

func (d defaultRepository) FindDoctorByUUID(ctx context.Context, doctorUUID uuid.UUID) (*Doctor, error) {
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

func (d defaultRepository) FindDoctorByUserID(ctx context.Context, userID int64) (*Doctor, error) {
	params := make([]interface{}, 1)
	params[0] = userID
	rows, err := d.dbConn.DB().QueryContext(ctx, findDoctorByUserIDQuery, params...)
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

func (d defaultRepository) UpdateDoctorSchedule(ctx context.Context, doctorID int64, scheduleJSON string) error {
	params := make([]interface{}, 2)
	params[0] = scheduleJSON
	params[1] = doctorID
	_, err := d.dbConn.DB().ExecContext(ctx, updateDoctorScheduleQuery, params...)
	return err
}

func (d defaultRepository) InsertLeave(ctx context.Context, leave *Leave) error {
	params := make([]interface{}, 5)
	params[0] = leave.UUID.String()
	params[1] = leave.DoctorID
	params[2] = leave.StartDate
	params[3] = leave.EndDate
	params[4] = leave.Reason
	result, err := d.dbConn.DB().ExecContext(ctx, insertLeaveQuery, params...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (d defaultRepository) ListLeaves(ctx context.Context, doctorID int64) ([]*Leave, error) {
	params := make([]interface{}, 1)
	params[0] = doctorID
	rows, err := d.dbConn.DB().QueryContext(ctx, listLeavesQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	leaves := make([]*Leave, 0)
	for rows.Next() {
		leave := new(Leave)
		if err = database.TransformRow(rows, leave); err != nil {
			return nil, err
		}
		leaves = append(leaves, leave)
	}
	return leaves, nil
}

func (d defaultRepository) FindLeaveByUUID(ctx context.Context, leaveUUID uuid.UUID) (*Leave, error) {
	params := make([]interface{}, 1)
	params[0] = leaveUUID.String()
	rows, err := d.dbConn.DB().QueryContext(ctx, findLeaveByUUIDQuery, params...)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	leave := new(Leave)
	for rows.Next() {
		if err = database.TransformRow(rows, leave); err != nil {
			return nil, err
		}
		if leave.ID > 0 {
			return leave, nil
		}
	}
	return nil, nil
}

func (d defaultRepository) DeleteLeave(ctx context.Context, leaveID int64) error {
	params := make([]interface{}, 1)
	params[0] = leaveID
	_, err := d.dbConn.DB().ExecContext(ctx, deleteLeaveQuery, params...)
	return err
}

func (d defaultRepository) IsOnLeave(ctx context.Context, doctorID int64, date time.Time) (bool, error) {
	params := make([]interface{}, 2)
	params[0] = doctorID
	params[1] = date
	row := d.dbConn.DB().QueryRowContext(ctx, countLeavesCoveringQuery, params...)
	if row.Err() != nil {
		return false, row.Err()
	}
	count := new(int64)
	if err := row.Scan(count); err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return *count > 0, nil
}
