package service

import (
	"context"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/entity"
	"time"

	"github.com/robfig/cron/v3"
)

// JobScheduler is the one-shot timer facility the scheduler service arms reminders on.
type JobScheduler interface {
	ScheduleOnce(at time.Time, cmd func()) (cron.EntryID, error)
	RemoveJob(id cron.EntryID)
	GetEntries() []cron.Entry
	Stop()
}

// ReminderHandler is invoked when a reminder fires.
type ReminderHandler func(ctx context.Context, appointmentID uint) error

// SchedulerService defines the interface for reminder scheduling operations.
type SchedulerService interface {
	// Schedule arms a one-shot reminder for the appointment at fireAt. A fire time that is
	// not in the future is skipped without error. A pending reminder for the same
	// appointment is replaced.
	Schedule(ctx context.Context, appointmentID uint, fireAt time.Time) error
	// ScheduleAppointmentReminder computes the fire time of a stored appointment and
	// schedules it. Reports whether a reminder is now armed.
	ScheduleAppointmentReminder(ctx context.Context, appointment *entity.Appointment) (bool, error)
	// CancelReminderSchedule revokes the pending reminder of an appointment, if any.
	CancelReminderSchedule(ctx context.Context, appointmentID uint)
	// PendingReminders lists armed reminders ordered by fire time.
	PendingReminders() []dto.PendingReminder
	// InitializeSchedules re-arms reminders of upcoming scheduled appointments on startup.
	InitializeSchedules(ctx context.Context) error
	// Stop stops the underlying scheduler.
	Stop()
}
