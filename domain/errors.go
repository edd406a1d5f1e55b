package domain

import "errors"

var (
	ErrNotFound                = errors.New("record not found")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrUsernameTaken           = errors.New("username already exists")
	ErrInactiveEmployee        = errors.New("employee is not active")
	ErrDuplicateAttendance     = errors.New("attendance action conflicts with the latest record of the day")
	ErrQRTokenInvalid          = errors.New("invalid qr token")
	ErrQRTokenExpired          = errors.New("qr token expired")
	ErrQRTokenReused           = errors.New("qr token already used")
	ErrKioskNotProvisioned     = errors.New("kiosk is not provisioned for this institution")
	ErrInvalidKioskCode        = errors.New("invalid kiosk code")
	ErrAlertNotActive          = errors.New("alert is not active")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidSetting          = errors.New("invalid setting")
	ErrInvalidSchedule         = errors.New("invalid schedule")
	ErrInvalidTimestamp        = errors.New("invalid timestamp")
	ErrInvalidAttendanceType   = errors.New("invalid attendance type")
	ErrInvalidDate             = errors.New("invalid date")
)
