package service

import (
	"context"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/constant"
)

// NotificationSender delivers a message on one channel.
type NotificationSender interface {
	Send(ctx context.Context, channel constant.Channel, from, to, body string) error
}

// AdminAlerter notifies clinic staff when a reminder could not be delivered.
type AdminAlerter interface {
	Alert(ctx context.Context, message string) error
}

// SenderAddresses holds the origin address of each channel.
type SenderAddresses struct {
	SMS      string
	WhatsApp string
}

// ReminderService defines the interface for reminder delivery.
type ReminderService interface {
	// HandleReminder resolves the appointment and sends its reminder on every channel the
	// patient has. Runs on the scheduler's goroutine when a reminder fires.
	HandleReminder(ctx context.Context, appointmentID uint) error
	// ListDeliveries returns the recorded delivery attempts of an appointment.
	ListDeliveries(ctx context.Context, appointmentID uint) ([]dto.DeliveryResponse, error)
}
