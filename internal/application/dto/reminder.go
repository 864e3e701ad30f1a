package dto

import (
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"time"
)

// PendingReminder describes a reminder armed in the in-process scheduler.
type PendingReminder struct {
	AppointmentID uint      `json:"appointment_id"`
	FireAt        time.Time `json:"fire_at"`
}

// DeliveryResponse is the DTO for one recorded delivery attempt.
type DeliveryResponse struct {
	Channel      constant.Channel        `json:"channel"`
	Destination  string                  `json:"destination"`
	Status       constant.DeliveryStatus `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	SentAt       time.Time               `json:"sent_at"`
}

// ToDeliveryResponseList converts recorded deliveries to DTOs.
func ToDeliveryResponseList(deliveries []*entity.ReminderDelivery) []DeliveryResponse {
	list := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		list[i] = DeliveryResponse{
			Channel:      d.Channel,
			Destination:  d.Destination,
			Status:       d.Status,
			ErrorMessage: d.ErrorMessage,
			SentAt:       d.SentAt,
		}
	}
	return list
}
