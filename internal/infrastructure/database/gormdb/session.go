package gormdb

import (
	"context"
	"medreminder/internal/domain/repository"

	"gorm.io/gorm"
)

type store struct {
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	deliveries   repository.DeliveryRepository
}

func newStore(db *gorm.DB) *store {
	return &store{
		users:        NewUserRepository(db),
		appointments: NewAppointmentRepository(db),
		deliveries:   NewDeliveryRepository(db),
	}
}

func (s *store) Users() repository.UserRepository               { return s.users }
func (s *store) Appointments() repository.AppointmentRepository { return s.appointments }
func (s *store) Deliveries() repository.DeliveryRepository     { return s.deliveries }

type sessionFactory struct {
	db *gorm.DB
}

// NewSessionFactory returns a SessionFactory that pins one pooled connection per session.
func NewSessionFactory(db *gorm.DB) repository.SessionFactory {
	return &sessionFactory{db: db}
}

// WithSession runs fn on a dedicated connection that is returned to the pool afterwards.
func (f *sessionFactory) WithSession(ctx context.Context, fn func(store repository.Store) error) error {
	return f.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return fn(newStore(tx))
	})
}
