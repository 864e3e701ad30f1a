package entity

import "time"

// User is a patient, a doctor, or both; the role is decided by the appointment referencing it.
type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:hashed_password;not null"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	IsDoctor       bool      `gorm:"column:is_doctor;default:false;index"`
	Name           string    `gorm:"column:name;not null"`
	Phone          string    `gorm:"column:phone"`    // SMS destination, empty when absent
	WhatsApp       string    `gorm:"column:whatsapp"` // WhatsApp destination, empty when absent
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for the User entity.
func (User) TableName() string {
	return "users"
}
