package gormdb

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) withParticipants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Patient").Preload("Doctor")
}

// FindByID retrieves an appointment with its patient and doctor.
func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	if err := r.withParticipants(ctx).First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find appointment by id %d: %w", id, err)
	}
	return &appointment, nil
}

// List retrieves appointments matching the filter.
func (r *appointmentRepository) List(ctx context.Context, filter repository.AppointmentFilter) ([]*entity.Appointment, error) {
	var appointments []*entity.Appointment
	q := r.withParticipants(ctx).Order("id asc")
	if filter.PatientID != 0 {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != 0 {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	q = paginate(q, filter.Skip, filter.Limit)
	if err := q.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// FindByStatusFrom retrieves appointments in a status dated on or after fromDate.
// Dates are stored as YYYY-MM-DD so lexical order matches calendar order.
func (r *appointmentRepository) FindByStatusFrom(ctx context.Context, status constant.AppointmentStatus, fromDate string) ([]*entity.Appointment, error) {
	var appointments []*entity.Appointment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND date >= ?", status, fromDate).
		Order("date asc, time asc").
		Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s appointments from %s: %w", status, fromDate, err)
	}
	return appointments, nil
}

// Create creates a new appointment.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	if err := r.db.WithContext(ctx).Omit("Patient", "Doctor").Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment for patient %d: %w", appointment.PatientID, err)
	}
	return nil
}

// Update saves all fields of an existing appointment.
func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	if err := r.db.WithContext(ctx).Omit("Patient", "Doctor").Save(appointment).Error; err != nil {
		return fmt.Errorf("failed to update appointment %d: %w", appointment.ID, err)
	}
	return nil
}

// Delete deletes an appointment by its ID.
func (r *appointmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment with ID %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
