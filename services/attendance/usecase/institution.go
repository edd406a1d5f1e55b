package usecase

import (
	"context"
	"fmt"
	"time"

	"fichai/domain"

	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"
)

type institutionUC struct {
	institutionRepo domain.InstitutionRepo
	issuer          string
	TimeOut         time.Duration
}

func NewInstitutionUseCase(repo domain.InstitutionRepo, issuer string, timeOut time.Duration) domain.InstitutionUseCase {
	return &institutionUC{
		institutionRepo: repo,
		issuer:          issuer,
		TimeOut:         timeOut,
	}
}

func (uc *institutionUC) GetInstitution(ctx context.Context, institutionID int) (*domain.Institution, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.institutionRepo.GetInstitutionByID(ctx, institutionID)
}

// RotateKioskSecret replaces the kiosk TOTP secret. The old secret stops
// working immediately, so every kiosk must be enrolled again.
func (uc *institutionUC) RotateKioskSecret(ctx context.Context, institutionID int) (*domain.KioskEnrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	inst, err := uc.institutionRepo.GetInstitutionByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      uc.issuer,
		AccountName: fmt.Sprintf("kiosk-%d-%s", inst.InstitutionID, inst.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate kiosk secret: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render kiosk qr code: %w", err)
	}

	if err := uc.institutionRepo.UpdateKioskSecret(ctx, institutionID, key.Secret()); err != nil {
		return nil, err
	}

	return &domain.KioskEnrollment{URL: key.URL(), PNG: png}, nil
}
