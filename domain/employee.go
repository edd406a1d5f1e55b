package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Employee struct {
	EmployeeID    int          `gorm:"primaryKey;autoIncrement" json:"employee_id"`
	InstitutionID int          `gorm:"not null;index" json:"institution_id"`
	Institution   *Institution `gorm:"foreignKey:InstitutionID;references:InstitutionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"institution,omitempty"`
	Name          string       `gorm:"type:varchar(150);not null" json:"name"`
	Username      string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password      string       `gorm:"type:varchar(255);not null" json:"-"`
	Role          string       `gorm:"type:role_enum;not null" json:"role"`
	Gender        *string      `gorm:"type:gender_enum" json:"gender"`
	Email         *string      `gorm:"type:varchar(255)" json:"email"`
	Telephone     *string      `gorm:"type:varchar(20)" json:"telephone"`
	IsActive      bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     *time.Time   `gorm:"index" json:"deleted_at"`
}

type CreateEmployeeRequest struct {
	Name      string  `json:"name" valid:"required~Name is required"`
	Username  string  `json:"username" valid:"required~Username is required,alphanum~Username must be alphanumeric"`
	Password  string  `json:"password" valid:"required~Password is required,length(8|72)~Password must be 8 to 72 characters"`
	Role      string  `json:"role" valid:"required~Role is required,in(admin|employee)~Invalid role"`
	Gender    *string `json:"gender" valid:"in(male|female)~Invalid gender,optional"`
	Email     *string `json:"email" valid:"email~Invalid email format,optional"`
	Telephone *string `json:"telephone" valid:"numeric~Telephone must be numeric,optional"`
}

type UpdateEmployeeRequest struct {
	Name      *string `json:"name"`
	Role      *string `json:"role" valid:"in(admin|employee)~Invalid role,optional"`
	Gender    *string `json:"gender" valid:"in(male|female)~Invalid gender,optional"`
	Email     *string `json:"email" valid:"email~Invalid email format,optional"`
	Telephone *string `json:"telephone" valid:"numeric~Telephone must be numeric,optional"`
	Password  *string `json:"password" valid:"length(8|72)~Password must be 8 to 72 characters,optional"`
}

type EmployeeRepo interface {
	CreateEmployee(ctx context.Context, employee *Employee) (*Employee, error)
	GetAllEmployees(ctx context.Context, institutionID int) (*[]Employee, error)
	GetActiveEmployees(ctx context.Context, institutionID int) (*[]Employee, error)
	GetAdmins(ctx context.Context, institutionID int) (*[]Employee, error)
	GetEmployeeByID(ctx context.Context, employeeID int) (*Employee, error)
	GetEmployeeByUsername(ctx context.Context, username string) (*Employee, error)
	UpdateEmployee(ctx context.Context, employee *Employee) error
	DeactivateEmployee(ctx context.Context, institutionID, employeeID int) error
}

type EmployeeUseCase interface {
	CreateEmployee(ctx context.Context, institutionID int, req *CreateEmployeeRequest) (*Employee, error)
	GetAllEmployees(ctx context.Context, institutionID int) (*[]Employee, error)
	GetEmployeeByID(ctx context.Context, institutionID, employeeID int) (*Employee, error)
	UpdateEmployee(ctx context.Context, institutionID, employeeID int, req *UpdateEmployeeRequest) (*Employee, error)
	DeactivateEmployee(ctx context.Context, institutionID, employeeID int) error
}
