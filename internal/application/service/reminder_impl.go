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
	"time"

	"gorm.io/gorm"
)

type reminderService struct {
	sessions repository.SessionFactory
	sender   NotificationSender
	alerter  AdminAlerter // nil when no admin channel is configured
	from     SenderAddresses
	now      func() time.Time
	log      logger.Logger
}

// NewReminderService creates a new instance of ReminderService implementation.
// alerter may be nil.
func NewReminderService(
	sessions repository.SessionFactory,
	sender NotificationSender,
	alerter AdminAlerter,
	from SenderAddresses,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		sessions: sessions,
		sender:   sender,
		alerter:  alerter,
		from:     from,
		now:      time.Now,
		log:      log,
	}
}

// ComposeReminderMessage builds the reminder text sent to the patient.
func ComposeReminderMessage(doctorName, date, clock string) string {
	if t, err := entity.ParseClock(clock); err == nil {
		clock = t.Format("15:04")
	}
	return fmt.Sprintf("Reminder: You have an appointment with Dr. %s on %s at %s.", doctorName, date, clock)
}

// HandleReminder sends the reminder of an appointment. Missing records and channel
// failures are logged and swallowed; only store failures are returned.
func (s *reminderService) HandleReminder(ctx context.Context, appointmentID uint) error {
	return s.sessions.WithSession(ctx, func(store repository.Store) error {
		appointment, err := store.Appointments().FindByID(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn(fmt.Sprintf("Appointment %d not found for reminder, skipping.", appointmentID))
				return nil
			}
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}

		if appointment.Status != constant.StatusScheduled {
			s.log.Info(fmt.Sprintf("Appointment %d is %s, no reminder sent.", appointmentID, appointment.Status))
			return nil
		}

		patient, err := s.findUser(ctx, store, appointment.PatientID)
		if err != nil || patient == nil {
			return err
		}
		doctor, err := s.findUser(ctx, store, appointment.DoctorID)
		if err != nil || doctor == nil {
			return err
		}

		message := ComposeReminderMessage(doctor.Name, appointment.Date, appointment.Time)

		// SMS goes first; a failure there never blocks WhatsApp.
		s.deliver(ctx, store, appointment.ID, constant.ChannelSMS, s.from.SMS, patient.Phone, message)
		s.deliver(ctx, store, appointment.ID, constant.ChannelWhatsApp, s.from.WhatsApp, patient.WhatsApp, message)
		return nil
	})
}

// findUser returns nil, nil when the user no longer exists.
func (s *reminderService) findUser(ctx context.Context, store repository.Store, id uint) (*entity.User, error) {
	user, err := store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn(fmt.Sprintf("User %d not found for reminder, skipping.", id))
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return user, nil
}

func (s *reminderService) deliver(
	ctx context.Context,
	store repository.Store,
	appointmentID uint,
	channel constant.Channel,
	from, to, body string,
) {
	if to == "" {
		s.log.Debug(fmt.Sprintf("Patient of appointment %d has no %s destination.", appointmentID, channel))
		return
	}

	delivery := &entity.ReminderDelivery{
		AppointmentID: appointmentID,
		Channel:       channel,
		Destination:   to,
		Status:        constant.DeliverySent,
		SentAt:        s.now(),
	}

	if err := s.send(ctx, channel, from, to, body); err != nil {
		err = fmt.Errorf("%w: %v", appErrors.ErrNotification, err)
		s.log.Error(fmt.Sprintf("Failed to send %s reminder for appointment %d", channel, appointmentID), err)
		delivery.Status = constant.DeliveryFailed
		delivery.ErrorMessage = err.Error()
		s.alert(ctx, fmt.Sprintf("Reminder for appointment %d could not be sent by %s to %s: %v", appointmentID, channel, to, err))
	} else {
		s.log.Info(fmt.Sprintf("Sent %s reminder for appointment %d", channel, appointmentID))
	}

	if err := store.Deliveries().Create(ctx, delivery); err != nil {
		s.log.Error(fmt.Sprintf("Failed to record %s delivery for appointment %d", channel, appointmentID), err)
	}
}

// send turns a panicking sender into an ordinary channel failure.
func (s *reminderService) send(ctx context.Context, channel constant.Channel, from, to, body string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return s.sender.Send(ctx, channel, from, to, body)
}

func (s *reminderService) alert(ctx context.Context, message string) {
	if s.alerter == nil {
		return
	}
	if err := s.alerter.Alert(ctx, message); err != nil {
		s.log.Warn(fmt.Sprintf("Failed to send admin alert: %v", err))
	}
}

// ListDeliveries returns the recorded delivery attempts of an appointment.
func (s *reminderService) ListDeliveries(ctx context.Context, appointmentID uint) ([]dto.DeliveryResponse, error) {
	var deliveries []*entity.ReminderDelivery
	err := s.sessions.WithSession(ctx, func(store repository.Store) error {
		if _, err := store.Appointments().FindByID(ctx, appointmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErrors.ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		var err error
		deliveries, err = store.Deliveries().FindByAppointmentID(ctx, appointmentID)
		if err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToDeliveryResponseList(deliveries), nil
}
