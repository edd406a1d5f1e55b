package domain

import (
	"context"
	"time"
)

type PrivacyRequestType string

const (
	PrivacyAccess        PrivacyRequestType = "access"
	PrivacyRectification PrivacyRequestType = "rectification"
	PrivacyErasure       PrivacyRequestType = "erasure"
	PrivacyPortability   PrivacyRequestType = "portability"
)

type PrivacyRequestStatus string

const (
	PrivacyPending    PrivacyRequestStatus = "pending"
	PrivacyInProgress PrivacyRequestStatus = "in_progress"
	PrivacyCompleted  PrivacyRequestStatus = "completed"
	PrivacyRejected   PrivacyRequestStatus = "rejected"
)

// CanTransition reports whether a privacy request may move from s to next.
func (s PrivacyRequestStatus) CanTransition(next PrivacyRequestStatus) bool {
	switch s {
	case PrivacyPending:
		return next == PrivacyInProgress || next == PrivacyRejected
	case PrivacyInProgress:
		return next == PrivacyCompleted || next == PrivacyRejected
	default:
		return false
	}
}

type PrivacyRequest struct {
	RequestID   int                  `gorm:"primaryKey;autoIncrement" json:"request_id"`
	EmployeeID  int                  `gorm:"not null;index" json:"employee_id"`
	Employee    *Employee            `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employee,omitempty"`
	Type        PrivacyRequestType   `gorm:"type:privacy_request_type_enum;not null" json:"type"`
	Status      PrivacyRequestStatus `gorm:"type:privacy_request_status_enum;not null;default:'pending'" json:"status"`
	Details     *string              `gorm:"type:text" json:"details"`
	Response    *string              `gorm:"type:text" json:"response"`
	HandledBy   *int                 `json:"handled_by"`
	CreatedAt   time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time           `json:"completed_at"`
}

type PrivacyRequestPayload struct {
	Type    string  `json:"type" valid:"required~Type is required,in(access|rectification|erasure|portability)~Invalid request type"`
	Details *string `json:"details"`
}

type PrivacyStatusPayload struct {
	Status   string  `json:"status" valid:"required~Status is required,in(in_progress|completed|rejected)~Invalid status"`
	Response *string `json:"response"`
}

type PrivacyRepo interface {
	CreatePrivacyRequest(ctx context.Context, req *PrivacyRequest) (*PrivacyRequest, error)
	GetPrivacyRequestByID(ctx context.Context, institutionID, requestID int) (*PrivacyRequest, error)
	GetAllPrivacyRequests(ctx context.Context, institutionID int) (*[]PrivacyRequest, error)
	GetPrivacyRequestsByEmployee(ctx context.Context, employeeID int) (*[]PrivacyRequest, error)
	UpdatePrivacyRequest(ctx context.Context, req *PrivacyRequest, from PrivacyRequestStatus) error
}

type PrivacyUseCase interface {
	FileRequest(ctx context.Context, employeeID int, payload *PrivacyRequestPayload) (*PrivacyRequest, error)
	GetMyRequests(ctx context.Context, employeeID int) (*[]PrivacyRequest, error)
	GetAllRequests(ctx context.Context, institutionID int) (*[]PrivacyRequest, error)
	UpdateStatus(ctx context.Context, institutionID, requestID, handlerID int, payload *PrivacyStatusPayload) (*PrivacyRequest, error)
}
