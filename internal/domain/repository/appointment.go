package repository

import (
	"context"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
)

// AppointmentFilter narrows an appointment listing.
type AppointmentFilter struct {
	Skip      int
	Limit     int
	PatientID uint
	DoctorID  uint
}

// AppointmentRepository defines the interface for appointment data operations.
type AppointmentRepository interface {
	// FindByID retrieves an appointment with its patient and doctor.
	FindByID(ctx context.Context, id uint) (*entity.Appointment, error)
	// List retrieves appointments matching the filter, ordered by ID.
	List(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, error)
	// FindByStatusFrom retrieves appointments in a status dated on or after fromDate (YYYY-MM-DD).
	FindByStatusFrom(ctx context.Context, status constant.AppointmentStatus, fromDate string) ([]*entity.Appointment, error)
	// Create creates a new appointment.
	Create(ctx context.Context, appointment *entity.Appointment) error
	// Update saves all fields of an existing appointment.
	Update(ctx context.Context, appointment *entity.Appointment) error
	// Delete deletes an appointment by its ID.
	Delete(ctx context.Context, id uint) error
}
