package entity

import (
	"time"

	"medreminder/internal/domain/constant"
)

// ReminderDelivery records one delivery attempt of a reminder on one channel.
type ReminderDelivery struct {
	ID            uint                    `gorm:"primaryKey;autoIncrement"`
	AppointmentID uint                    `gorm:"column:appointment_id;not null;index"`
	Channel       constant.Channel        `gorm:"column:channel;size:20;not null"`
	Destination   string                  `gorm:"column:destination;not null"`
	Status        constant.DeliveryStatus `gorm:"column:status;size:20;not null"`
	ErrorMessage  string                  `gorm:"column:error_message;type:text"`
	SentAt        time.Time               `gorm:"column:sent_at"`
}

// TableName specifies the table name for the ReminderDelivery entity.
func (ReminderDelivery) TableName() string {
	return "reminder_deliveries"
}
