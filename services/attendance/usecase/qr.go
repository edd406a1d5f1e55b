package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fichai/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var kioskValidateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func (uc *attendanceUC) IssueQRToken(ctx context.Context, employeeID int) (*domain.QRToken, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, domain.ErrInactiveEmployee
	}

	return signQRToken(uc.qr, emp, nowFunc())
}

func signQRToken(cfg QRConfig, emp *domain.Employee, now time.Time) (*domain.QRToken, error) {
	expiresAt := now.Add(cfg.TTL)
	claims := &domain.QRClaims{
		EmployeeID:    emp.EmployeeID,
		InstitutionID: emp.InstitutionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(emp.EmployeeID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign qr token: %w", err)
	}

	return &domain.QRToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// parseQRToken checks the signature, then expiry against now rather than the wall clock.
func parseQRToken(secret []byte, token string, now time.Time) (*domain.QRClaims, error) {
	claims := &domain.QRClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQRTokenInvalid, err)
	}

	if claims.ID == "" || claims.EmployeeID == 0 || claims.ExpiresAt == nil {
		return nil, domain.ErrQRTokenInvalid
	}
	if !claims.VerifyExpiresAt(now, true) {
		return nil, domain.ErrQRTokenExpired
	}
	return claims, nil
}

func (uc *attendanceUC) ScanQRToken(ctx context.Context, institutionID int, kioskCode, token string) (*domain.AttendanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	inst, err := uc.institutionRepo.GetInstitutionByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if inst.KioskSecret == nil || *inst.KioskSecret == "" {
		return nil, domain.ErrKioskNotProvisioned
	}

	now := nowFunc()
	ok, err := totp.ValidateCustom(kioskCode, *inst.KioskSecret, now, kioskValidateOpts)
	if err != nil || !ok {
		return nil, domain.ErrInvalidKioskCode
	}

	claims, err := parseQRToken(uc.qr.Secret, token, now)
	if err != nil {
		return nil, err
	}
	if claims.InstitutionID != institutionID {
		return nil, domain.ErrQRTokenInvalid
	}

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrQRTokenInvalid
		}
		return nil, err
	}
	if emp.InstitutionID != institutionID {
		return nil, domain.ErrQRTokenInvalid
	}
	emp.Institution = inst

	jti := claims.ID
	return uc.record(ctx, emp, attendanceEntry{
		at:     now,
		method: domain.MethodQR,
		qrJTI:  &jti,
	})
}
