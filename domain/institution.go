package domain

import (
	"context"
	"time"
)

const DefaultTimezone = "Europe/Madrid"

type Institution struct {
	InstitutionID int       `gorm:"primaryKey;autoIncrement" json:"institution_id"`
	Name          string    `gorm:"type:varchar(150);not null;unique" json:"name" valid:"required~Name is required"`
	Timezone      string    `gorm:"type:varchar(64);not null;default:'Europe/Madrid'" json:"timezone"`
	KioskSecret   *string   `gorm:"type:varchar(64)" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Location resolves the institution timezone, falling back to UTC when the
// zone is unknown to the host.
func (i *Institution) Location() *time.Location {
	if i == nil || i.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(i.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// KioskEnrollment is returned once, when a kiosk secret is rotated.
type KioskEnrollment struct {
	URL string `json:"otpauth_url"`
	PNG []byte `json:"-"`
}

type InstitutionRepo interface {
	GetAllInstitutions(ctx context.Context) (*[]Institution, error)
	GetInstitutionByID(ctx context.Context, institutionID int) (*Institution, error)
	UpdateKioskSecret(ctx context.Context, institutionID int, secret string) error
}

type InstitutionUseCase interface {
	GetInstitution(ctx context.Context, institutionID int) (*Institution, error)
	RotateKioskSecret(ctx context.Context, institutionID int) (*KioskEnrollment, error)
}
