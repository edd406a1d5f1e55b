package repository

import (
	"context"
	"fmt"

	"fichai/domain"

	"gorm.io/gorm"
)

type privacyRepository struct {
	db *gorm.DB
}

func NewPrivacyRepository(db *gorm.DB) domain.PrivacyRepo {
	return &privacyRepository{
		db: db,
	}
}

func (r *privacyRepository) CreatePrivacyRequest(ctx context.Context, req *domain.PrivacyRequest) (*domain.PrivacyRequest, error) {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, fmt.Errorf("could not create privacy request: %w", err)
	}
	return req, nil
}

func (r *privacyRepository) GetPrivacyRequestByID(ctx context.Context, institutionID, requestID int) (*domain.PrivacyRequest, error) {
	var req domain.PrivacyRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.employee_id = privacy_requests.employee_id").
		Where("privacy_requests.request_id = ? AND employees.institution_id = ?", requestID, institutionID).
		First(&req).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

func (r *privacyRepository) GetAllPrivacyRequests(ctx context.Context, institutionID int) (*[]domain.PrivacyRequest, error) {
	var list []domain.PrivacyRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.employee_id = privacy_requests.employee_id").
		Where("employees.institution_id = ?", institutionID).
		Order("privacy_requests.created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("could not get privacy requests: %w", err)
	}
	return &list, nil
}

func (r *privacyRepository) GetPrivacyRequestsByEmployee(ctx context.Context, employeeID int) (*[]domain.PrivacyRequest, error) {
	var list []domain.PrivacyRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("could not get privacy requests: %w", err)
	}
	return &list, nil
}

// UpdatePrivacyRequest writes only if the stored status is still from.
func (r *privacyRepository) UpdatePrivacyRequest(ctx context.Context, req *domain.PrivacyRequest, from domain.PrivacyRequestStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.PrivacyRequest{}).
		Where("request_id = ? AND status = ?", req.RequestID, from).
		Updates(map[string]interface{}{
			"status":       req.Status,
			"response":     req.Response,
			"handled_by":   req.HandledBy,
			"completed_at": req.CompletedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("could not update privacy request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}
