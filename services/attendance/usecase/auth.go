package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fichai/domain"
	"fichai/middleware"

	"golang.org/x/crypto/bcrypt"
)

type authUC struct {
	employeeRepo domain.EmployeeRepo
	TimeOut      time.Duration
}

func NewAuthUseCase(repo domain.EmployeeRepo, timeOut time.Duration) domain.AuthUseCase {
	return &authUC{
		employeeRepo: repo,
		TimeOut:      timeOut,
	}
}

func (auc *authUC) Login(ctx context.Context, data *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	emp, err := auc.employeeRepo.GetEmployeeByUsername(ctx, strings.ToLower(data.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !emp.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.Password), []byte(data.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := middleware.GenerateJWT(emp, nowFunc())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.LoginResponse{Token: token, Role: emp.Role}, nil
}
