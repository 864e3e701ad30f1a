package dto

import (
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"time"
)

// CreateAppointmentRequest is the DTO for booking an appointment.
type CreateAppointmentRequest struct {
	PatientID uint    `json:"patient_id" validate:"required"`
	DoctorID  uint    `json:"doctor_id" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string  `json:"time" validate:"required"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateAppointmentRequest is the DTO for a partial appointment update; nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	Date   *string                     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time   *string                     `json:"time,omitempty"`
	Status *constant.AppointmentStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes  *string                     `json:"notes,omitempty"`
}

// ListAppointmentsQuery holds the optional filters of an appointment listing.
type ListAppointmentsQuery struct {
	Skip      int
	Limit     int
	PatientID uint
	DoctorID  uint
}

// AppointmentResponse is the DTO for sending appointment information to the client.
type AppointmentResponse struct {
	ID        uint                       `json:"id"`
	PatientID uint                       `json:"patient_id"`
	DoctorID  uint                       `json:"doctor_id"`
	Date      string                     `json:"date"`
	Time      string                     `json:"time"`
	Status    constant.AppointmentStatus `json:"status"`
	Notes     *string                    `json:"notes,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
	Patient   *UserResponse              `json:"patient,omitempty"`
	Doctor    *UserResponse              `json:"doctor,omitempty"`
}

// ToAppointmentResponse converts an entity.Appointment to an AppointmentResponse DTO.
func ToAppointmentResponse(a *entity.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Patient != nil {
		p := ToUserResponse(a.Patient)
		resp.Patient = &p
	}
	if a.Doctor != nil {
		d := ToUserResponse(a.Doctor)
		resp.Doctor = &d
	}
	return resp
}

// ToAppointmentResponseList converts a slice of entity.Appointment to a slice of AppointmentResponse DTOs.
func ToAppointmentResponseList(appointments []*entity.Appointment) []AppointmentResponse {
	list := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		list[i] = ToAppointmentResponse(a)
	}
	return list
}
