package booking

import (
	"context"
	"doctor-booking/internal/apierrors"
	"doctor-booking/internal/auth"
	"doctor-booking/internal/clock"
	"doctor-booking/internal/configs"
	"doctor-booking/internal/database"
	"doctor-booking/internal/lock"
	"doctor-booking/internal/logging"
	"doctor-booking/internal/metrics"
	"doctor-booking/internal/notification"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Booker determines the methods available to patients to book appointments.
type Booker interface {

	// Book reserves the requested slot with the given doctor for the
	// authenticated user's patient record.
	Book(ctx context.Context, user auth.User, doctorUUID uuid.UUID, request BookingRequest) (*Appointment, error)
}

// Lifecycler determines the methods used to move appointments between statuses.
type Lifecycler interface {

	// Transition moves the given appointment to the given status, enforcing
	// the caller's role and the status rules.
	Transition(ctx context.Context, user auth.User, appointmentUUID uuid.UUID, newStatus Status) (*Appointment, error)

	// MarkNoShow moves the given appointment to no_show.
	MarkNoShow(ctx context.Context, user auth.User, appointmentUUID uuid.UUID) (*Appointment, error)
}

// Sweeper determines the method used by the background worker to flag
// forgotten appointments.
type Sweeper interface {

	// SweepNoShows marks every active appointment older than the configured
	// threshold as no_show and returns how many were swept.
	SweepNoShows(ctx context.Context) (int, error)
}

type Service interface {
	Booker
	Lifecycler
	Sweeper
}

type defaultService struct {
	ledger   Ledger
	locker   lock.Locker
	notifier notification.Notifier
	clock    clock.Clock
	config   configs.Config
	logger   *log.Logger
}

// NewService creates a new booking service.
func NewService(config configs.Config, logger *log.Logger, dbConn database.Connection, locker lock.Locker, notifier notification.Notifier, clk clock.Clock) Service {
	return &defaultService{
		config:   config,
		logger:   logger,
		ledger:   NewLedger(dbConn),
		locker:   locker,
		notifier: notifier,
		clock:    clk,
	}
}

func (d defaultService) Book(ctx context.Context, user auth.User, doctorUUID uuid.UUID, request BookingRequest) (*Appointment, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	patient, err := d.ledger.FindPatientByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if patient == nil {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("unauthorized"),
			apierrors.WithDetail(ErrOnlyPatientCanBook),
			apierrors.WithHTTPStatusCode(http.StatusForbidden))
	}
	doctor, err := d.ledger.FindDoctorByUUID(ctx, doctorUUID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("not_found"),
			apierrors.WithDetail(ErrDoctorNotFound),
			apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	dateHeure := request.DateHeure.Truncate(time.Minute)
	if dateHeure.Before(d.clock.Now()) {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("past_time"),
			apierrors.WithDetail(ErrPastTime),
			apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	var appointment *Appointment
	err = d.locker.WithDoctorLock(ctx, doctor.UUID, func(lockCtx context.Context) error {
		reserved, reserveErr := d.ledger.Reserve(lockCtx, doctor.ID, patient.ID, dateHeure)
		if reserveErr != nil {
			return reserveErr
		}
		appointment = reserved
		return nil
	})
	if err != nil {
		if errors.Is(err, Error(ErrSlotTaken)) || errors.Is(err, lock.ErrNotAcquired) {
			metrics.IncSlotConflicts()
			return nil, apierrors.NewAPIError(
				apierrors.WithStatus("slot_taken"),
				apierrors.WithDetail(ErrSlotTaken),
				apierrors.WithHTTPStatusCode(http.StatusConflict))
		}
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	metrics.IncReservations()
	d.notifier.Notify(ctx, notification.EventAppointmentBooked, appointment.UUID)
	return appointment, nil
}

func (d defaultService) Transition(ctx context.Context, user auth.User, appointmentUUID uuid.UUID, newStatus Status) (*Appointment, error) {
	appointment, err := d.ledger.FindAppointmentByUUID(ctx, appointmentUUID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if appointment == nil {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("not_found"),
			apierrors.WithDetail(ErrAppointmentNotFound),
			apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	if appointment.Status.IsTerminal() {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("already_terminal"),
			apierrors.WithDetail(ErrAlreadyTerminal),
			apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	if newStatus == appointment.Status {
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("invalid_transition"),
			apierrors.WithDetail(ErrInvalidTransition),
			apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	switch user.Role {
	case auth.PatientRole:
		patient, findErr := d.ledger.FindPatientByUserID(ctx, user.ID)
		if findErr != nil {
			return nil, fmt.Errorf("an unexpected error occurred: %w", findErr)
		}
		if patient == nil || patient.ID != appointment.PatientID || newStatus != StatusCancelled {
			return nil, apierrors.NewAPIError(
				apierrors.WithStatus("unauthorized"),
				apierrors.WithDetail(ErrPatientsMayOnlyCancel),
				apierrors.WithHTTPStatusCode(http.StatusForbidden))
		}
	case auth.DoctorRole, auth.AdminRole:
		if newStatus == StatusNoShow && appointment.DateHeure.After(d.clock.Now()) {
			return nil, apierrors.NewAPIError(
				apierrors.WithStatus("future_appointment"),
				apierrors.WithDetail(ErrFutureAppointment),
				apierrors.WithHTTPStatusCode(http.StatusBadRequest))
		}
	default:
		return nil, apierrors.NewAPIError(
			apierrors.WithStatus("unauthorized"),
			apierrors.WithDetail("role not allowed"),
			apierrors.WithHTTPStatusCode(http.StatusForbidden))
	}
	if err = d.ledger.UpdateAppointmentStatus(ctx, appointment.ID, newStatus); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	appointment.Status = newStatus
	switch newStatus {
	case StatusCancelled:
		d.notifier.Notify(ctx, notification.EventAppointmentCancelled, appointment.UUID)
	case StatusNoShow:
		d.notifier.Notify(ctx, notification.EventAppointmentNoShow, appointment.UUID)
	}
	return appointment, nil
}

func (d defaultService) MarkNoShow(ctx context.Context, user auth.User, appointmentUUID uuid.UUID) (*Appointment, error) {
	return d.Transition(ctx, user, appointmentUUID, StatusNoShow)
}

func (d defaultService) SweepNoShows(ctx context.Context) (int, error) {
	cutoff := d.clock.Now().Add(-d.config.NoShowThreshold())
	stale, err := d.ledger.ListStaleActive(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	swept := 0
	for _, appointment := range stale {
		if err = d.ledger.UpdateAppointmentStatus(ctx, appointment.ID, StatusNoShow); err != nil {
			logging.PrintlnError(d.logger, fmt.Sprintf("could not mark appointment %s as no-show: %v", appointment.UUID, err))
			continue
		}
		d.notifier.Notify(ctx, notification.EventAppointmentNoShow, appointment.UUID)
		swept++
	}
	if swept > 0 {
		metrics.AddNoShowSwept(swept)
	}
	return swept, nil
}
