package domain

import (
	"context"
	"time"
)

type JustificationStatus string

const (
	JustificationPending  JustificationStatus = "pending"
	JustificationApproved JustificationStatus = "approved"
	JustificationRejected JustificationStatus = "rejected"
)

// AbsenceJustification explains an absence on a calendar date of the institution timezone.
type AbsenceJustification struct {
	JustificationID int                 `gorm:"primaryKey;autoIncrement" json:"justification_id"`
	EmployeeID      int                 `gorm:"not null;index" json:"employee_id"`
	Employee        *Employee           `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employee,omitempty"`
	Date            string              `gorm:"type:date;not null" json:"date"`
	Reason          string              `gorm:"type:text;not null" json:"reason"`
	Status          JustificationStatus `gorm:"type:justification_status_enum;not null;default:'pending'" json:"status"`
	ReviewedBy      *int                `json:"reviewed_by"`
	ReviewedAt      *time.Time          `json:"reviewed_at"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

type JustificationRequest struct {
	Date   string `json:"date" valid:"required~Date is required"`
	Reason string `json:"reason" valid:"required~Reason is required"`
}

type JustificationRepo interface {
	CreateJustification(ctx context.Context, j *AbsenceJustification) (*AbsenceJustification, error)
	GetJustificationByID(ctx context.Context, institutionID, justificationID int) (*AbsenceJustification, error)
	GetAllJustifications(ctx context.Context, institutionID int, status *JustificationStatus) (*[]AbsenceJustification, error)
	ReviewJustification(ctx context.Context, justificationID int, to JustificationStatus, reviewerID int) error
	HasApprovedJustification(ctx context.Context, employeeID int, date string) (bool, error)
}

type JustificationUseCase interface {
	SubmitJustification(ctx context.Context, employeeID int, req *JustificationRequest) (*AbsenceJustification, error)
	GetAllJustifications(ctx context.Context, institutionID int, status *JustificationStatus) (*[]AbsenceJustification, error)
	ApproveJustification(ctx context.Context, institutionID, justificationID, reviewerID int) error
	RejectJustification(ctx context.Context, institutionID, justificationID, reviewerID int) error
}
