package repository

import (
	"context"
	"fmt"
	"time"

	"fichai/domain"

	"gorm.io/gorm"
)

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) domain.AlertRepo {
	return &alertRepository{
		db: db,
	}
}

func (r *alertRepository) CreateAlert(ctx context.Context, alert *domain.Alert) (*domain.Alert, error) {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, fmt.Errorf("could not create alert: %w", err)
	}
	return alert, nil
}

func (r *alertRepository) GetAlertByID(ctx context.Context, institutionID, alertID int) (*domain.Alert, error) {
	var alert domain.Alert
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("alert_id = ? AND institution_id = ?", alertID, institutionID).
		First(&alert).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &alert, nil
}

func (r *alertRepository) GetAllAlerts(ctx context.Context, institutionID int, filter domain.AlertFilter) (*[]domain.Alert, error) {
	var alerts []domain.Alert
	q := r.db.WithContext(ctx).
		Preload("Employee").
		Where("institution_id = ?", institutionID)

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	if err := q.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("could not get alerts: %w", err)
	}
	return &alerts, nil
}

// UpdateAlertStatus only moves alerts that are still in from.
func (r *alertRepository) UpdateAlertStatus(ctx context.Context, institutionID, alertID int, from, to domain.AlertStatus, userID int) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("alert_id = ? AND institution_id = ? AND status = ?", alertID, institutionID, from).
		Updates(map[string]interface{}{
			"status":      to,
			"resolved_by": userID,
			"resolved_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("could not update alert: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Alert{}).
		Where("alert_id = ? AND institution_id = ?", alertID, institutionID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("could not look up alert: %w", err)
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrAlertNotActive
}

func (r *alertRepository) ResolveAlertsBetween(ctx context.Context, employeeID int, alertType domain.AlertType, from, to time.Time, userID int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("employee_id = ? AND type = ? AND status = ? AND created_at >= ? AND created_at < ?",
			employeeID, alertType, domain.AlertActive, from, to).
		Updates(map[string]interface{}{
			"status":      domain.AlertResolved,
			"resolved_by": userID,
			"resolved_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("could not resolve alerts: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CountAlertsSince ignores escalation alerts, so they never count toward the
// limit that raised them.
func (r *alertRepository) CountAlertsSince(ctx context.Context, employeeID int, alertType domain.AlertType, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("employee_id = ? AND type = ? AND created_at >= ?", employeeID, alertType, since).
		Where("COALESCE(metadata->>?, '') = ''", domain.MetadataEscalation).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count alerts: %w", err)
	}
	return count, nil
}
