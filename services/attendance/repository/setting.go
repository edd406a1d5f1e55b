package repository

import (
	"context"
	"fmt"

	"fichai/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) domain.SettingRepo {
	return &settingRepository{
		db: db,
	}
}

func (r *settingRepository) GetSettings(ctx context.Context, institutionID int) (*[]domain.InstitutionSetting, error) {
	var settings []domain.InstitutionSetting
	if err := r.db.WithContext(ctx).Where("institution_id = ?", institutionID).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("could not get settings: %w", err)
	}
	return &settings, nil
}

func (r *settingRepository) GetSetting(ctx context.Context, institutionID int, key string) (*domain.InstitutionSetting, error) {
	var setting domain.InstitutionSetting
	err := r.db.WithContext(ctx).Where("institution_id = ? AND key = ?", institutionID, key).First(&setting).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &setting, nil
}

func (r *settingRepository) UpsertSetting(ctx context.Context, setting *domain.InstitutionSetting) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "institution_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("could not save setting %s: %w", setting.Key, err)
	}
	return nil
}
