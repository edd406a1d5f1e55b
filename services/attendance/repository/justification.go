package repository

import (
	"context"
	"fmt"
	"time"

	"fichai/domain"

	"gorm.io/gorm"
)

type justificationRepository struct {
	db *gorm.DB
}

func NewJustificationRepository(db *gorm.DB) domain.JustificationRepo {
	return &justificationRepository{
		db: db,
	}
}

func (r *justificationRepository) CreateJustification(ctx context.Context, j *domain.AbsenceJustification) (*domain.AbsenceJustification, error) {
	if err := r.db.WithContext(ctx).Create(j).Error; err != nil {
		return nil, fmt.Errorf("could not create justification: %w", err)
	}
	return j, nil
}

func (r *justificationRepository) GetJustificationByID(ctx context.Context, institutionID, justificationID int) (*domain.AbsenceJustification, error) {
	var j domain.AbsenceJustification
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.employee_id = absence_justifications.employee_id").
		Where("absence_justifications.justification_id = ? AND employees.institution_id = ?", justificationID, institutionID).
		First(&j).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

func (r *justificationRepository) GetAllJustifications(ctx context.Context, institutionID int, status *domain.JustificationStatus) (*[]domain.AbsenceJustification, error) {
	var list []domain.AbsenceJustification
	q := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.employee_id = absence_justifications.employee_id").
		Where("employees.institution_id = ?", institutionID)
	if status != nil {
		q = q.Where("absence_justifications.status = ?", *status)
	}
	if err := q.Order("absence_justifications.created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("could not get justifications: %w", err)
	}
	return &list, nil
}

func (r *justificationRepository) ReviewJustification(ctx context.Context, justificationID int, to domain.JustificationStatus, reviewerID int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.AbsenceJustification{}).
		Where("justification_id = ? AND status = ?", justificationID, domain.JustificationPending).
		Updates(map[string]interface{}{
			"status":      to,
			"reviewed_by": reviewerID,
			"reviewed_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("could not review justification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *justificationRepository) HasApprovedJustification(ctx context.Context, employeeID int, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AbsenceJustification{}).
		Where("employee_id = ? AND date = ? AND status = ?", employeeID, date, domain.JustificationApproved).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("could not check justifications: %w", err)
	}
	return count > 0, nil
}
