package repository

import (
	"context"
	"fmt"

	"fichai/domain"

	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) domain.NotificationRepo {
	return &notificationRepo{
		db: db,
	}
}

func (np *notificationRepo) LogNotificationHistory(ctx context.Context, history *domain.AlertNotificationHistory) error {
	if err := np.db.WithContext(ctx).Create(history).Error; err != nil {
		return fmt.Errorf("could not log notification history: %w", err)
	}
	return nil
}

func (np *notificationRepo) GetAllNotificationHistory(ctx context.Context, institutionID int) (*[]domain.AlertNotificationHistory, error) {
	var histories []domain.AlertNotificationHistory

	err := np.db.WithContext(ctx).
		Preload("Alert").
		Preload("Recipient").
		Joins("JOIN alerts ON alerts.alert_id = alert_notification_histories.alert_id").
		Where("alerts.institution_id = ?", institutionID).
		Order("alert_notification_histories.created_at DESC").
		Find(&histories).Error
	if err != nil {
		return nil, fmt.Errorf("could not get notification history: %w", err)
	}

	return &histories, nil
}
