package repository

import (
	"context"
	"fmt"
	"time"

	"fichai/domain"

	"gorm.io/gorm"
)

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) domain.EmployeeRepo {
	return &employeeRepository{
		db: db,
	}
}

func (r *employeeRepository) CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	err := r.db.WithContext(ctx).Create(employee).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("could not create employee: %w", err)
	}
	return employee, nil
}

func (r *employeeRepository) GetAllEmployees(ctx context.Context, institutionID int) (*[]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND deleted_at IS NULL", institutionID).
		Order("name").
		Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("could not get employees: %w", err)
	}
	return &employees, nil
}

func (r *employeeRepository) GetActiveEmployees(ctx context.Context, institutionID int) (*[]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND is_active AND deleted_at IS NULL", institutionID).
		Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("could not get active employees: %w", err)
	}
	return &employees, nil
}

func (r *employeeRepository) GetAdmins(ctx context.Context, institutionID int) (*[]domain.Employee, error) {
	var admins []domain.Employee
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND role = ? AND is_active AND deleted_at IS NULL", institutionID, domain.RoleAdmin).
		Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("could not get admins: %w", err)
	}
	return &admins, nil
}

func (r *employeeRepository) GetEmployeeByID(ctx context.Context, employeeID int) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Where("employee_id = ? AND deleted_at IS NULL", employeeID).
		First(&employee).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}

func (r *employeeRepository) GetEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Where("username = ? AND deleted_at IS NULL", username).
		First(&employee).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}

func (r *employeeRepository) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Updates(map[string]interface{}{
			"name":      employee.Name,
			"role":      employee.Role,
			"gender":    employee.Gender,
			"email":     employee.Email,
			"telephone": employee.Telephone,
			"password":  employee.Password,
			"is_active": employee.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("could not update employee: %w", err)
	}
	return nil
}

// DeactivateEmployee blocks login and scans but keeps the row, so attendance
// history stays attached to it.
func (r *employeeRepository) DeactivateEmployee(ctx context.Context, institutionID, employeeID int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("employee_id = ? AND institution_id = ? AND deleted_at IS NULL", employeeID, institutionID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("could not deactivate employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
