package availability

import (
	"context"
	"doctor-booking/internal/apierrors"
	"doctor-booking/internal/auth"
	"doctor-booking/internal/booking"
	"doctor-booking/internal/clock"
	"doctor-booking/internal/configs"
	"doctor-booking/internal/database"
	"doctor-booking/internal/schedule"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SlotsReader determines the methods used to consult a doctor's availability.
type SlotsReader interface {

	// GetAvailableSlots returns the open slot start times of the given doctor
	// on the given day, with the meta describing the computation.
	GetAvailableSlots(ctx context.Context, doctorUUID uuid.UUID, date time.Time) ([]string, *SlotsMeta, error)

	// GetAvailability returns the doctor's schedule and leaves in one shot.
	GetAvailability(ctx context.Context, doctorUUID uuid.UUID) (*Availability, error)
}

// ScheduleWriter determines the method used by doctors to replace their
// weekly schedule.
type ScheduleWriter interface {

	// UpdateSchedule replaces the authenticated doctor's weekly schedule.
	UpdateSchedule(ctx context.Context, user auth.User, template schedule.WeeklyTemplate) (schedule.WeeklyTemplate, error)
}

// LeaveManager determines the methods used by doctors to manage their leaves.
type LeaveManager interface {

	// CreateLeave registers a leave period for the authenticated doctor.
	CreateLeave(ctx context.Context, user auth.User, request LeaveRequest) (*Leave, error)

	// DeleteLeave removes one of the authenticated doctor's leaves.
	DeleteLeave(ctx context.Context, user auth.User, leaveUUID uuid.UUID) error
}

type Service interface {
	SlotsReader
	ScheduleWriter
	LeaveManager
}

type defaultService struct {
	repository Repository
	ledger     booking.Ledger
	clock      clock.Clock
	config     configs.Config
}

// NewService creates a new availability service.
func NewService(config configs.Config, dbConn database.Connection, clk clock.Clock) Service {
	return &defaultService{
		config:     config,
		repository: newRepository(dbConn),
		ledger:     booking.NewLedger(dbConn),
		clock:      clk,
	}
}

func (d defaultService) GetAvailableSlots(ctx context.Context, doctorUUID uuid.UUID, date time.Time) ([]string, *SlotsMeta, error) {
	doctor, err := d.repository.FindDoctorByUUID(ctx, doctorUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, nil, apierrors.NewAPIError(
			apierrors.WithStatus("not_found"),
			apierrors.WithDetail(ErrDoctorNotFound),
			apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	template, err := doctor.Template()
	if err != nil {
		return nil, nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	day, err := d.dayName(date)
	if err != nil {
		return nil, nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	meta := &SlotsMeta{
		DoctorUUID: doctor.UUID,
		Date:       date.Format(dateLayout),
		DayOfWeek:  day,
	}
	// the leave check comes before any slot computation: an on-leave day
	// reports zero slots across the board
	onLeave, err := d.repository.IsOnLeave(ctx, doctor.ID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if onLeave {
		meta.IsOnLeave = true
		return []string{}, meta, nil
	}
	candidates := schedule.GenerateSlots(template, day, schedule.SlotDurationMinutes)
	meta.TotalSlots = len(candidates)
	booked, err := d.ledger.BookedTimes(ctx, doctor.ID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	available := subtract(candidates, booked)
	meta.BookedSlots = len(candidates) - len(available)
	meta.AvailableSlots = len(available)
	return available, meta, nil
}

func (d defaultService) GetAvailability(ctx context.Context, doctorUUID uuid.UUID) (*Availability, error) {
	doctor, err := d.repository.FindDoctorByUUID(ctx, doctorUUID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("not_found"),
			apierrors.WithDetail(ErrDoctorNotFound),
			apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	template, err := doctor.Template()
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	leaves, err := d.repository.ListLeaves(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return &Availability{Doctor: doctor, Schedule: template, Leaves: leaves}, nil
}

func (d defaultService) UpdateSchedule(ctx context.Context, user auth.User, template schedule.WeeklyTemplate) (schedule.WeeklyTemplate, error) {
	if err := template.Validate(); err != nil {
		return nil, err
	}
	doctor, err := d.repository.FindDoctorByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("unauthorized"),
			apierrors.WithDetail(ErrNoDoctorRecord),
			apierrors.WithHTTPStatusCode(http.StatusForbidden))
	}
	outside, err := d.ledger.AppointmentsOutsideTemplate(ctx, doctor.ID, template, d.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if len(outside) > 0 {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("conflict"),
			apierrors.WithDetail(ErrScheduleHasAppointments),
			apierrors.WithHTTPStatusCode(http.StatusConflict))
	}
	scheduleJSON, err := json.Marshal(template)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if err = d.repository.UpdateDoctorSchedule(ctx, doctor.ID, string(scheduleJSON)); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return template, nil
}

func (d defaultService) CreateLeave(ctx context.Context, user auth.User, request LeaveRequest) (*Leave, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	doctor, err := d.repository.FindDoctorByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("unauthorized"),
			apierrors.WithDetail(ErrNoDoctorRecord),
			apierrors.WithHTTPStatusCode(http.StatusForbidden))
	}
	start, end := request.Period()
	now := d.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if start.Before(today) {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("past_time"),
			apierrors.WithDetail(ErrLeaveStartsInPast),
			apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	endOfLeave := end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	hasAppointments, err := d.ledger.HasActiveAppointmentInRange(ctx, doctor.ID, start, endOfLeave)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if hasAppointments {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("conflict"),
			apierrors.WithDetail(ErrLeaveHasAppointments),
			apierrors.WithHTTPStatusCode(http.StatusConflict))
	}
	leave := &Leave{
		UUID:      uuid.New(),
		DoctorID:  doctor.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    request.Reason,
	}
	if err = d.repository.InsertLeave(ctx, leave); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return leave, nil
}

func (d defaultService) DeleteLeave(ctx context.Context, user auth.User, leaveUUID uuid.UUID) error {
	doctor, err := d.repository.FindDoctorByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return apierrors.NewAPIError(
			apierrors.WithStatus("unauthorized"),
			apierrors.WithDetail(ErrNoDoctorRecord),
			apierrors.WithHTTPStatusCode(http.StatusForbidden))
	}
	leave, err := d.repository.FindLeaveByUUID(ctx, leaveUUID)
	if err != nil {
		return fmt.Errorf("an unexpected error occurred: %w", err)
	}
	// another doctor's leave is reported as missing rather than forbidden
	if leave == nil || leave.DoctorID != doctor.ID {
		return apierrors.NewAPIError(
			apierrors.WithStatus("not_found"),
			apierrors.WithDetail(ErrLeaveNotFound),
			apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	if err = d.repository.DeleteLeave(ctx, leave.ID); err != nil {
		return fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return nil
}

func (d defaultService) dayName(date time.Time) (string, error) {
	if d.config.StrictDayNames() {
		return schedule.StrictDayName(date.Weekday())
	}
	return schedule.DayName(date.Weekday()), nil
}

// subtract returns the candidates that are not booked, preserving order.
func subtract(candidates []string, booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}
	available := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available
}
