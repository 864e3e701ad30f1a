package service

import (
	"context"
	"medreminder/internal/application/dto"
)

// AppointmentService defines the interface for appointment-related business logic.
type AppointmentService interface {
	// CreateAppointment books an appointment and arms its reminder. Creation succeeds
	// even when the reminder cannot be scheduled.
	CreateAppointment(ctx context.Context, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	// GetAppointment retrieves an appointment with its patient and doctor.
	GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error)
	// ListAppointments lists appointments matching the query.
	ListAppointments(ctx context.Context, query dto.ListAppointmentsQuery) ([]dto.AppointmentResponse, error)
	// UpdateAppointment applies a partial update and reschedules or cancels the reminder.
	UpdateAppointment(ctx context.Context, id uint, req dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	// DeleteAppointment deletes an appointment and revokes its pending reminder.
	DeleteAppointment(ctx context.Context, id uint) error
}
