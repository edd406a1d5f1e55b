package domain

import (
	"context"
	"time"
)

const (
	SettingLateToleranceMinutes = "late_tolerance_minutes"
	SettingMaxLatesPerMonth     = "max_lates_per_month"

	DefaultLateToleranceMinutes = 15
	DefaultMaxLatesPerMonth     = 3
)

// SettingDefaults lists every recognised institution setting with its default.
var SettingDefaults = map[string]int{
	SettingLateToleranceMinutes: DefaultLateToleranceMinutes,
	SettingMaxLatesPerMonth:     DefaultMaxLatesPerMonth,
}

type InstitutionSetting struct {
	SettingID     int       `gorm:"primaryKey;autoIncrement" json:"setting_id"`
	InstitutionID int       `gorm:"not null;uniqueIndex:idx_institution_setting_key" json:"institution_id"`
	Key           string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_institution_setting_key" json:"key"`
	Value         string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type SettingRepo interface {
	GetSettings(ctx context.Context, institutionID int) (*[]InstitutionSetting, error)
	GetSetting(ctx context.Context, institutionID int, key string) (*InstitutionSetting, error)
	UpsertSetting(ctx context.Context, setting *InstitutionSetting) error
}

type SettingUseCase interface {
	GetSettings(ctx context.Context, institutionID int) (map[string]int, error)
	UpdateSettings(ctx context.Context, institutionID int, values map[string]int) (map[string]int, error)
	GetLateToleranceMinutes(ctx context.Context, institutionID int) (int, error)
	GetMaxLatesPerMonth(ctx context.Context, institutionID int) (int, error)
}
