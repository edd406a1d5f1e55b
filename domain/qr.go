package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type QRToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// QRClaims is the signed payload an employee presents to a kiosk.
type QRClaims struct {
	EmployeeID    int `json:"employee_id"`
	InstitutionID int `json:"institution_id"`
	jwt.RegisteredClaims
}

type QRScanRequest struct {
	Token string `json:"token" valid:"required~Token is required"`
}
