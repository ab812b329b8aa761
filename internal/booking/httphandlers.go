package booking

import (
	"doctor-booking/internal/apierrors"
	"doctor-booking/internal/auth"
	"doctor-booking/internal/clock"
	"doctor-booking/internal/configs"
	"doctor-booking/internal/database"
	"doctor-booking/internal/lock"
	"doctor-booking/internal/logging"
	"doctor-booking/internal/notification"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type httpHandler struct {
	service    Service
	authorizer auth.Authorizer
	logger     *log.Logger
}

// Setup setups the routes handled by booking context.
func Setup(router *chi.Mux, logger *log.Logger, authorizer auth.Authorizer, config configs.Config, dbConn database.Connection, locker lock.Locker, notifier notification.Notifier, clk clock.Clock) {
	handler := &httpHandler{
		logger:     logger,
		authorizer: authorizer,
		service:    NewService(config, logger, dbConn, locker, notifier, clk),
	}

	// patient routes
	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(auth.AllowedRoles(authorizer, auth.PatientRole))
		group.Post("/api/v1/doctors/{doctorUUID}/appointments", handler.Book)
	})

	// any authenticated user; ownership and role rules live in the service
	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Patch("/api/v1/appointments/{appointmentUUID}/status", handler.UpdateStatus)
	})

	// doctor and admin routes
	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(auth.AllowedRoles(authorizer, auth.DoctorRole, auth.AdminRole))
		group.Post("/api/v1/appointments/{appointmentUUID}/no-show", handler.MarkNoShow)
	})
}

// Book handles the request to book an appointment with a doctor.
func (h httpHandler) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctorUUID, err := h.parseUUIDParameter("doctorUUID", r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	request := new(BookingRequest)
	if err = json.NewDecoder(r.Body).Decode(request); err != nil {
		logging.PrintlnError(h.logger, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	appointment, err := h.service.Book(ctx, user, doctorUUID, *request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusCreated, appointment, nil)
}

// UpdateStatus handles the request to move an appointment to a new status.
func (h httpHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appointmentUUID, err := h.parseUUIDParameter("appointmentUUID", r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	request := new(TransitionRequest)
	if err = json.NewDecoder(r.Body).Decode(request); err != nil {
		logging.PrintlnError(h.logger, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	newStatus, err := ParseStatus(request.Statut)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	appointment, err := h.service.Transition(ctx, user, appointmentUUID, newStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, appointment, nil)
}

// MarkNoShow handles the request to flag an appointment the patient missed.
func (h httpHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appointmentUUID, err := h.parseUUIDParameter("appointmentUUID", r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	// body is optional and carries only a free-text reason
	_ = json.NewDecoder(r.Body).Decode(new(NoShowRequest))
	appointment, err := h.service.MarkNoShow(ctx, user, appointmentUUID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, appointment, nil)
}

func (h httpHandler) parseUUIDParameter(key string, r *http.Request) (uuid.UUID, error) {
	parsed, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, apierrors.NewValidationError(key, ErrInvalidIdentifier)
	}
	return parsed, nil
}

func (h httpHandler) writeData(w http.ResponseWriter, statusCode int, data interface{}, meta interface{}) {
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Response{Status: "success", Data: data, Meta: meta})
}

func (h httpHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logging.PrintlnError(h.logger, fmt.Sprint(r.Context().Value(middleware.RequestIDKey), " ", err))
	switch typedErr := err.(type) {
	case *apierrors.APIError:
		w.WriteHeader(typedErr.HTTPStatusCode())
		_ = json.NewEncoder(w).Encode(typedErr)
	case *apierrors.ValidationError:
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(typedErr)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}
