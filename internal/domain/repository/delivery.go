package repository

import (
	"context"
	"medreminder/internal/domain/entity"
)

// DeliveryRepository stores reminder delivery outcomes.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.ReminderDelivery) error
	FindByAppointmentID(ctx context.Context, appointmentID uint) ([]*entity.ReminderDelivery, error)
}
