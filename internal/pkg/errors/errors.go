package errors

import "errors"

// Custom application errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidDateTime     = errors.New("invalid date or time format")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDatabaseOperation   = errors.New("database operation failed")
	ErrScheduling          = errors.New("scheduling failed")
	ErrFireTimePassed      = errors.New("fire time is not in the future") // Timer facility saw the instant already gone
	ErrNotification        = errors.New("notification delivery failed") // Sender returned an error for a channel
	ErrInternalServer      = errors.New("internal server error")
)
