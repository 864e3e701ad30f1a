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
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultLeadTime is how long before an appointment its reminder fires.
const DefaultLeadTime = 24 * time.Hour

// SchedulerOptions configures the scheduler service.
type SchedulerOptions struct {
	LeadTime time.Duration
	Location *time.Location
	Now      func() time.Time
}

// pendingJob is the cancellation token of one armed reminder.
type pendingJob struct {
	entryID cron.EntryID
	fireAt  time.Time
}

type schedulerService struct {
	jobs            JobScheduler
	appointmentRepo repository.AppointmentRepository
	handler         ReminderHandler
	leadTime        time.Duration
	loc             *time.Location
	now             func() time.Time
	log             logger.Logger
	// map[appointmentID]*pendingJob
	jobStore map[uint]*pendingJob
	mu       sync.Mutex // Protect jobStore access
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
// handler is run for every reminder that fires.
func NewSchedulerService(
	jobs JobScheduler,
	appointmentRepo repository.AppointmentRepository,
	handler ReminderHandler,
	opts SchedulerOptions,
	log logger.Logger,
) SchedulerService {
	if opts.LeadTime <= 0 {
		opts.LeadTime = DefaultLeadTime
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &schedulerService{
		jobs:            jobs,
		appointmentRepo: appointmentRepo,
		handler:         handler,
		leadTime:        opts.LeadTime,
		loc:             opts.Location,
		now:             opts.Now,
		log:             log,
		jobStore:        make(map[uint]*pendingJob),
	}
}

// Schedule arms a one-shot reminder for the appointment at fireAt.
func (s *schedulerService) Schedule(ctx context.Context, appointmentID uint, fireAt time.Time) error {
	if !fireAt.After(s.now()) {
		s.log.Debug(fmt.Sprintf("Skipping reminder for appointment %d: fire time %v already passed", appointmentID, fireAt))
		return nil
	}

	// Held across ScheduleOnce so a job firing right away sees its own token in the store.
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(appointmentID)

	token := &pendingJob{fireAt: fireAt}
	entryID, err := s.jobs.ScheduleOnce(fireAt, func() { s.run(appointmentID, token) })
	if err != nil {
		// The instant can pass between the check above and the timer's own check.
		if errors.Is(err, appErrors.ErrFireTimePassed) {
			s.log.Debug(fmt.Sprintf("Skipping reminder for appointment %d: fire time %v already passed", appointmentID, fireAt))
			return nil
		}
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	token.entryID = entryID
	s.jobStore[appointmentID] = token

	s.log.Info(fmt.Sprintf("Scheduled reminder for appointment %d at %v (Job ID: %d)", appointmentID, fireAt, entryID))
	return nil
}

// run executes a fired reminder unless it was revoked or replaced in the meantime.
func (s *schedulerService) run(appointmentID uint, token *pendingJob) {
	s.mu.Lock()
	current, ok := s.jobStore[appointmentID]
	if ok && current == token {
		delete(s.jobStore, appointmentID)
	}
	s.mu.Unlock()

	// One-shot entries never fire again; drop the spent entry.
	s.jobs.RemoveJob(token.entryID)

	if !ok || current != token {
		s.log.Debug(fmt.Sprintf("Reminder job %d for appointment %d was revoked, skipping", token.entryID, appointmentID))
		return
	}

	s.log.Info(fmt.Sprintf("Executing reminder job for appointment %d", appointmentID))
	if err := s.handler(context.Background(), appointmentID); err != nil {
		s.log.Error(fmt.Sprintf("Error handling reminder for appointment %d", appointmentID), err)
	}
}

// ScheduleAppointmentReminder computes the fire time of an appointment and schedules it.
func (s *schedulerService) ScheduleAppointmentReminder(ctx context.Context, appointment *entity.Appointment) (bool, error) {
	if appointment.Status != constant.StatusScheduled {
		s.CancelReminderSchedule(ctx, appointment.ID)
		return false, nil
	}

	startsAt, err := appointment.StartsAt(s.loc)
	if err != nil {
		return false, fmt.Errorf("%w: %v", appErrors.ErrInvalidDateTime, err)
	}
	fireAt := startsAt.Add(-s.leadTime)

	if !fireAt.After(s.now()) {
		// A rescheduled appointment may have moved inside the lead time.
		s.CancelReminderSchedule(ctx, appointment.ID)
		s.log.Info(fmt.Sprintf("Appointment %d starts at %v, too soon for a reminder", appointment.ID, startsAt))
		return false, nil
	}

	if err := s.Schedule(ctx, appointment.ID, fireAt); err != nil {
		return false, err
	}
	return true, nil
}

// CancelReminderSchedule revokes the pending reminder of an appointment.
func (s *schedulerService) CancelReminderSchedule(ctx context.Context, appointmentID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(appointmentID)
}

func (s *schedulerService) cancelLocked(appointmentID uint) {
	token, ok := s.jobStore[appointmentID]
	if !ok {
		s.log.Debug(fmt.Sprintf("No pending reminder found for appointment %d to cancel.", appointmentID))
		return
	}
	delete(s.jobStore, appointmentID)
	s.jobs.RemoveJob(token.entryID)
	s.log.Info(fmt.Sprintf("Cancelled reminder for appointment %d (Job ID: %d)", appointmentID, token.entryID))
}

// PendingReminders lists armed reminders ordered by fire time.
func (s *schedulerService) PendingReminders() []dto.PendingReminder {
	s.mu.Lock()
	list := make([]dto.PendingReminder, 0, len(s.jobStore))
	for id, token := range s.jobStore {
		list = append(list, dto.PendingReminder{AppointmentID: id, FireAt: token.fireAt})
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].FireAt.Equal(list[j].FireAt) {
			return list[i].AppointmentID < list[j].AppointmentID
		}
		return list[i].FireAt.Before(list[j].FireAt)
	})
	return list
}

// InitializeSchedules loads upcoming scheduled appointments and arms their reminders.
func (s *schedulerService) InitializeSchedules(ctx context.Context) error {
	s.log.Info("Initializing reminder schedules from database...")
	today := s.now().In(s.loc).Format(entity.DateLayout)
	appointments, err := s.appointmentRepo.FindByStatusFrom(ctx, constant.StatusScheduled, today)
	if err != nil {
		s.log.Error("Failed to retrieve appointments for initialization", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	scheduledCount := 0
	for _, appointment := range appointments {
		armed, err := s.ScheduleAppointmentReminder(ctx, appointment)
		if err != nil {
			s.log.Error(fmt.Sprintf("Failed to schedule reminder for appointment %d during init", appointment.ID), err)
			continue
		}
		if armed {
			scheduledCount++
		}
	}

	s.log.Info(fmt.Sprintf("Schedule initialization complete. Scheduled: %d, Skipped: %d", scheduledCount, len(appointments)-scheduledCount))
	s.log.Debug(fmt.Sprintf("Current cron entries: %d", len(s.jobs.GetEntries())))
	return nil
}

// Stop stops the underlying scheduler.
func (s *schedulerService) Stop() {
	s.jobs.Stop()
}
