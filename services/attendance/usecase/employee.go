package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fichai/domain"

	"golang.org/x/crypto/bcrypt"
)

type employeeUC struct {
	employeeRepo domain.EmployeeRepo
	TimeOut      time.Duration
}

func NewEmployeeUseCase(repo domain.EmployeeRepo, timeOut time.Duration) domain.EmployeeUseCase {
	return &employeeUC{
		employeeRepo: repo,
		TimeOut:      timeOut,
	}
}

func (uc *employeeUC) CreateEmployee(ctx context.Context, institutionID int, req *domain.CreateEmployeeRequest) (*domain.Employee, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.employeeRepo.CreateEmployee(ctx, &domain.Employee{
		InstitutionID: institutionID,
		Name:          strings.TrimSpace(req.Name),
		Username:      strings.ToLower(req.Username),
		Password:      string(hashed),
		Role:          req.Role,
		Gender:        req.Gender,
		Email:         req.Email,
		Telephone:     req.Telephone,
		IsActive:      true,
	})
}

func (uc *employeeUC) GetAllEmployees(ctx context.Context, institutionID int) (*[]domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.employeeRepo.GetAllEmployees(ctx, institutionID)
}

func (uc *employeeUC) GetEmployeeByID(ctx context.Context, institutionID, employeeID int) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.InstitutionID != institutionID {
		return nil, domain.ErrNotFound
	}
	return emp, nil
}

func (uc *employeeUC) UpdateEmployee(ctx context.Context, institutionID, employeeID int, req *domain.UpdateEmployeeRequest) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.InstitutionID != institutionID {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		emp.Role = *req.Role
	}
	if req.Gender != nil {
		emp.Gender = req.Gender
	}
	if req.Email != nil {
		emp.Email = req.Email
	}
	if req.Telephone != nil {
		emp.Telephone = req.Telephone
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("could not hash password: %w", err)
		}
		emp.Password = string(hashed)
	}

	if err := uc.employeeRepo.UpdateEmployee(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (uc *employeeUC) DeactivateEmployee(ctx context.Context, institutionID, employeeID int) error {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.employeeRepo.DeactivateEmployee(ctx, institutionID, employeeID)
}
