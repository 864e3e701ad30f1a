package service

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"strings"

	"gorm.io/gorm"
)

type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	schedulerSvc    SchedulerService
	log             logger.Logger
}

// NewAppointmentService creates a new instance of AppointmentService implementation.
func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	schedulerSvc SchedulerService,
	log logger.Logger,
) AppointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		schedulerSvc:    schedulerSvc,
		log:             log,
	}
}

// CreateAppointment books an appointment in the scheduled state and arms its reminder.
func (s *appointmentService) CreateAppointment(ctx context.Context, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if _, err := entity.ParseDate(req.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidDateTime, err)
	}
	clock, err := entity.NormalizeClock(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidDateTime, err)
	}
	if err := s.ensureUser(ctx, "patient", req.PatientID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, "doctor", req.DoctorID); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      strings.TrimSpace(req.Date),
		Time:      clock,
		Status:    constant.StatusScheduled,
		Notes:     req.Notes,
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		s.log.Error("Failed to create appointment", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Created appointment %d on %s at %s", appointment.ID, appointment.Date, appointment.Time))

	s.rearm(ctx, appointment)

	return s.GetAppointment(ctx, appointment.ID)
}

// ensureUser checks that a referenced user exists.
func (s *appointmentService) ensureUser(ctx context.Context, role string, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s %d does not exist", appErrors.ErrInvalidInput, role, id)
		}
		s.log.Error(fmt.Sprintf("Failed to look up %s %d", role, id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}

// rearm schedules or revokes the reminder of a stored appointment. Failures never reach the caller.
func (s *appointmentService) rearm(ctx context.Context, appointment *entity.Appointment) {
	if _, err := s.schedulerSvc.ScheduleAppointmentReminder(ctx, appointment); err != nil {
		s.log.Error(fmt.Sprintf("Failed to schedule reminder for appointment %d", appointment.ID), err)
	}
}

// GetAppointment retrieves an appointment with its patient and doctor.
func (s *appointmentService) GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	appointment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToAppointmentResponse(appointment)
	return &resp, nil
}

func (s *appointmentService) find(ctx context.Context, id uint) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrAppointmentNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get appointment %d", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return appointment, nil
}

// ListAppointments lists appointments matching the query.
func (s *appointmentService) ListAppointments(ctx context.Context, query dto.ListAppointmentsQuery) ([]dto.AppointmentResponse, error) {
	skip, limit, err := listWindow(query.Skip, query.Limit)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointmentRepo.List(ctx, repository.AppointmentFilter{
		Skip:      skip,
		Limit:     limit,
		PatientID: query.PatientID,
		DoctorID:  query.DoctorID,
	})
	if err != nil {
		s.log.Error("Failed to list appointments", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return dto.ToAppointmentResponseList(appointments), nil
}

// UpdateAppointment applies the non-nil fields of req.
func (s *appointmentService) UpdateAppointment(ctx context.Context, id uint, req dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	timingChanged := false
	if req.Date != nil {
		if _, err := entity.ParseDate(*req.Date); err != nil {
			return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidDateTime, err)
		}
		date := strings.TrimSpace(*req.Date)
		timingChanged = timingChanged || date != appointment.Date
		appointment.Date = date
	}
	if req.Time != nil {
		clock, err := entity.NormalizeClock(*req.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidDateTime, err)
		}
		timingChanged = timingChanged || clock != appointment.Time
		appointment.Time = clock
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", appErrors.ErrInvalidInput, *req.Status)
		}
		timingChanged = timingChanged || *req.Status != appointment.Status
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = req.Notes
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		s.log.Error(fmt.Sprintf("Failed to update appointment %d", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Updated appointment %d", id))

	if timingChanged {
		s.rearm(ctx, appointment)
	}

	resp := dto.ToAppointmentResponse(appointment)
	return &resp, nil
}

// DeleteAppointment deletes an appointment and revokes its pending reminder.
func (s *appointmentService) DeleteAppointment(ctx context.Context, id uint) error {
	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrAppointmentNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to delete appointment %d", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.schedulerSvc.CancelReminderSchedule(ctx, id)
	s.log.Info(fmt.Sprintf("Deleted appointment %d", id))
	return nil
}
