package entity

import (
	"fmt"
	"strings"
	"time"

	"medreminder/internal/domain/constant"
)

const (
	// DateLayout is the stored calendar date format.
	DateLayout = "2006-01-02"
	// TimeLayout is the stored wall clock format.
	TimeLayout = "15:04:05"
)

// Appointment links a patient and a doctor at a local date and time.
// Date and Time carry no timezone; they are read in the process-wide location.
type Appointment struct {
	ID        uint                       `gorm:"primaryKey;autoIncrement"`
	PatientID uint                       `gorm:"column:patient_id;not null;index"`
	DoctorID  uint                       `gorm:"column:doctor_id;not null;index"`
	Date      string                     `gorm:"column:date;size:10;not null;index"`
	Time      string                     `gorm:"column:time;not null"`
	Status    constant.AppointmentStatus `gorm:"column:status;size:20;not null;default:'scheduled'"`
	Notes     *string                    `gorm:"column:notes;type:text"`
	CreatedAt time.Time                  `gorm:"column:created_at"`
	UpdatedAt time.Time                  `gorm:"column:updated_at"`

	Patient *User `gorm:"foreignKey:PatientID"`
	Doctor  *User `gorm:"foreignKey:DoctorID"`
}

// TableName specifies the table name for the Appointment entity.
func (Appointment) TableName() string {
	return "appointments"
}

// StartsAt combines Date and Time into a single instant in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return CombineDateTime(a.Date, a.Time, loc)
}

// CombineDateTime parses a YYYY-MM-DD date and an HH:MM[:SS] clock in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", date, err)
	}
	return d, nil
}

// ParseClock accepts HH:MM or HH:MM:SS.
func ParseClock(clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	if t, err := time.Parse(TimeLayout, clock); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", clock, err)
	}
	return t, nil
}

// NormalizeClock returns clock in the stored HH:MM:SS form.
func NormalizeClock(clock string) (string, error) {
	t, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}
