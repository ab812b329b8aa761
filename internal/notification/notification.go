// Package notification contains the collaborator boundary used to deliver
// booking events. Delivery is fire-and-forget: a failed notification never
// fails the operation that produced it.
package notification

import (
	"context"
	"doctor-booking/internal/logging"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Event identifies a booking event delivered to the notification collaborator.
type Event string

const (
	EventAppointmentBooked    Event = "appointment_booked"
	EventAppointmentCancelled Event = "appointment_cancelled"
	EventAppointmentNoShow    Event = "appointment_no_show"
)

// Notifier determines the method used to deliver booking events.
type Notifier interface {

	// Notify delivers the given event about the given appointment.
	Notify(ctx context.Context, event Event, appointmentUUID uuid.UUID)
}

type logNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a Notifier that only logs the events it receives.
func NewLogNotifier(logger *log.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (l *logNotifier) Notify(_ context.Context, event Event, appointmentUUID uuid.UUID) {
	logging.PrintlnInfo(l.logger, fmt.Sprint("event ", event, " appointment ", appointmentUUID))
}
