package gormdb

import (
	"context"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"

	"gorm.io/gorm"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new instance of DeliveryRepository.
func NewDeliveryRepository(db *gorm.DB) repository.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *entity.ReminderDelivery) error {
	if err := r.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return fmt.Errorf("failed to record %s delivery for appointment %d: %w", delivery.Channel, delivery.AppointmentID, err)
	}
	return nil
}

func (r *deliveryRepository) FindByAppointmentID(ctx context.Context, appointmentID uint) ([]*entity.ReminderDelivery, error) {
	var deliveries []*entity.ReminderDelivery
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("sent_at asc, id asc").
		Find(&deliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to find deliveries for appointment %d: %w", appointmentID, err)
	}
	return deliveries, nil
}
