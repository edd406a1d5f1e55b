package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type AlertType string

const (
	AlertLateArrival      AlertType = "late_arrival"
	AlertAbsence          AlertType = "absence"
	AlertMissingCheckout  AlertType = "missing_checkout"
	AlertSubstituteNeeded AlertType = "substitute_needed"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertLateArrival, AlertAbsence, AlertMissingCheckout, AlertSubstituteNeeded:
		return true
	default:
		return false
	}
}

type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertResolved  AlertStatus = "resolved"
	AlertDismissed AlertStatus = "dismissed"
)

func (s AlertStatus) Valid() bool {
	switch s {
	case AlertActive, AlertResolved, AlertDismissed:
		return true
	default:
		return false
	}
}

// MetadataEscalation flags a late-arrival alert raised for exceeding the
// monthly limit rather than for a single check-in.
const MetadataEscalation = "escalation"

type Alert struct {
	AlertID       int            `gorm:"primaryKey;autoIncrement" json:"alert_id"`
	InstitutionID int            `gorm:"not null;index" json:"institution_id"`
	EmployeeID    int            `gorm:"not null;index:idx_alert_employee_type" json:"employee_id"`
	Employee      *Employee      `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employee,omitempty"`
	Type          AlertType      `gorm:"type:alert_type_enum;not null;index:idx_alert_employee_type" json:"type"`
	Status        AlertStatus    `gorm:"type:alert_status_enum;not null;default:'active'" json:"status"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Metadata      datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	ResolvedBy    *int           `json:"resolved_by"`
	ResolvedAt    *time.Time     `json:"resolved_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type AlertFilter struct {
	Status     *AlertStatus
	Type       *AlertType
	EmployeeID *int
	From       *time.Time
	To         *time.Time
}

type CreateAlertRequest struct {
	EmployeeID  int    `json:"employee_id" valid:"required~Employee ID is required"`
	Type        string `json:"type" valid:"required~Type is required,in(late_arrival|absence|missing_checkout|substitute_needed)~Invalid alert type"`
	Title       string `json:"title" valid:"required~Title is required"`
	Description string `json:"description"`
}

type AlertRepo interface {
	CreateAlert(ctx context.Context, alert *Alert) (*Alert, error)
	GetAlertByID(ctx context.Context, institutionID, alertID int) (*Alert, error)
	GetAllAlerts(ctx context.Context, institutionID int, filter AlertFilter) (*[]Alert, error)
	UpdateAlertStatus(ctx context.Context, institutionID, alertID int, from, to AlertStatus, userID int) error
	ResolveAlertsBetween(ctx context.Context, employeeID int, alertType AlertType, from, to time.Time, userID int) (int64, error)
	CountAlertsSince(ctx context.Context, employeeID int, alertType AlertType, since time.Time) (int64, error)
}

type AlertUseCase interface {
	CreateAlert(ctx context.Context, employeeID int, alertType AlertType, title, description string, metadata map[string]interface{}) (*Alert, error)
	GetAlertByID(ctx context.Context, institutionID, alertID int) (*Alert, error)
	GetAllAlerts(ctx context.Context, institutionID int, filter AlertFilter) (*[]Alert, error)
	ResolveAlert(ctx context.Context, institutionID, alertID, userID int) error
	DismissAlert(ctx context.Context, institutionID, alertID, userID int) error
	CountAlertsSince(ctx context.Context, employeeID int, alertType AlertType, since time.Time) (int64, error)
}

// AlertDispatcher delivers a freshly created alert to the people who must act on it.
type AlertDispatcher interface {
	DispatchAlert(ctx context.Context, alert *Alert) error
}
