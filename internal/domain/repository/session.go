package repository

import "context"

// Store groups the repositories bound to one store session.
type Store interface {
	Users() UserRepository
	Appointments() AppointmentRepository
	Deliveries() DeliveryRepository
}

// SessionFactory opens a scoped store session. The session is released when fn returns,
// so nothing obtained from it may outlive the call.
type SessionFactory interface {
	WithSession(ctx context.Context, fn func(store Store) error) error
}
