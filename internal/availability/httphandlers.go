package availability

import (
	"doctor-booking/internal/apierrors"
	"doctor-booking/internal/auth"
	"doctor-booking/internal/clock"
	"doctor-booking/internal/configs"
	"doctor-booking/internal/database"
	"doctor-booking/internal/logging"
	"doctor-booking/internal/schedule"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type httpHandler struct {
	service    Service
	authorizer auth.Authorizer
	logger     *log.Logger
}

// Setup setups the routes handled by availability context.
func Setup(router *chi.Mux, logger *log.Logger, authorizer auth.Authorizer, config configs.Config, dbConn database.Connection, clk clock.Clock) {
	handler := &httpHandler{
		logger:     logger,
		authorizer: authorizer,
		service:    NewService(config, dbConn, clk),
	}

	// routes open to any authenticated user
	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Get("/api/v1/doctors/{doctorUUID}/slots", handler.GetAvailableSlots)
		group.Get("/api/v1/doctors/{doctorUUID}/availability", handler.GetAvailability)
	})

	// doctor routes
	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(auth.AllowedRoles(authorizer, auth.DoctorRole))
		group.Put("/api/v1/doctor/schedule", handler.UpdateSchedule)
		group.Post("/api/v1/doctor/leaves", handler.CreateLeave)
		group.Delete("/api/v1/doctor/leaves/{leaveUUID}", handler.DeleteLeave)
	})
}

// GetAvailableSlots handles the request to list a doctor's open slots on a day.
func (h httpHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctorUUID, err := h.parseUUIDParameter("doctorUUID", r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), time.Local)
	if err != nil {
		h.writeError(w, r, apierrors.NewValidationError("date", "must be formatted as YYYY-MM-DD"))
		return
	}
	slots, meta, err := h.service.GetAvailableSlots(ctx, doctorUUID, date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, slots, meta)
}

// GetAvailability handles the request to dump a doctor's schedule and leaves.
func (h httpHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctorUUID, err := h.parseUUIDParameter("doctorUUID", r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	availability, err := h.service.GetAvailability(ctx, doctorUUID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, availability, nil)
}

// UpdateSchedule handles the request to replace the doctor's weekly schedule.
func (h httpHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	template := make(schedule.WeeklyTemplate)
	if err = json.NewDecoder(r.Body).Decode(&template); err != nil {
		logging.PrintlnError(h.logger, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	updated, err := h.service.UpdateSchedule(ctx, user, template)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, updated, nil)
}

// CreateLeave handles the request to register a doctor's leave period.
func (h httpHandler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	request := new(LeaveRequest)
	if err = json.NewDecoder(r.Body).Decode(request); err != nil {
		logging.PrintlnError(h.logger, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	leave, err := h.service.CreateLeave(ctx, user, *request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusCreated, leave, nil)
}

// DeleteLeave handles the request to remove a doctor's leave.
func (h httpHandler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	leaveUUID, err := h.parseUUIDParameter("leaveUUID", r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.service.DeleteLeave(ctx, user, leaveUUID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, nil, nil)
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
