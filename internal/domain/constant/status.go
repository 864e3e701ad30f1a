package constant

// AppointmentStatus defines the lifecycle states of an appointment.
type AppointmentStatus string

const (
	// StatusScheduled is the only state in which a reminder is delivered.
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DeliveryStatus is the outcome of one delivery attempt on one channel.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)
