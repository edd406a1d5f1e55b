package repository

import (
	"context"
	"fmt"

	"fichai/domain"

	"gorm.io/gorm"
)

type institutionRepository struct {
	db *gorm.DB
}

func NewInstitutionRepository(db *gorm.DB) domain.InstitutionRepo {
	return &institutionRepository{
		db: db,
	}
}

func (r *institutionRepository) GetAllInstitutions(ctx context.Context) (*[]domain.Institution, error) {
	var institutions []domain.Institution
	if err := r.db.WithContext(ctx).Order("institution_id").Find(&institutions).Error; err != nil {
		return nil, fmt.Errorf("could not get institutions: %w", err)
	}
	return &institutions, nil
}

func (r *institutionRepository) GetInstitutionByID(ctx context.Context, institutionID int) (*domain.Institution, error) {
	var institution domain.Institution
	err := r.db.WithContext(ctx).Where("institution_id = ?", institutionID).First(&institution).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &institution, nil
}

func (r *institutionRepository) UpdateKioskSecret(ctx context.Context, institutionID int, secret string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Institution{}).
		Where("institution_id = ?", institutionID).
		Update("kiosk_secret", secret)
	if res.Error != nil {
		return fmt.Errorf("could not update kiosk secret: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
