package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fichai/config"
	"fichai/domain"
)

type settingUC struct {
	settingRepo domain.SettingRepo
	TimeOut     time.Duration
}

func NewSettingUseCase(repo domain.SettingRepo, timeOut time.Duration) domain.SettingUseCase {
	return &settingUC{
		settingRepo: repo,
		TimeOut:     timeOut,
	}
}

func (uc *settingUC) GetSettings(ctx context.Context, institutionID int) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	stored, err := uc.settingRepo.GetSettings(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]int, len(domain.SettingDefaults))
	for k, v := range domain.SettingDefaults {
		values[k] = v
	}
	for _, s := range *stored {
		if _, known := values[s.Key]; !known {
			continue
		}
		if n, err := strconv.Atoi(s.Value); err == nil {
			values[s.Key] = n
		}
	}
	return values, nil
}

func (uc *settingUC) UpdateSettings(ctx context.Context, institutionID int, values map[string]int) (map[string]int, error) {
	for k, v := range values {
		if _, known := domain.SettingDefaults[k]; !known {
			return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, k)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidSetting, k)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	for k, v := range values {
		err := uc.settingRepo.UpsertSetting(ctx, &domain.InstitutionSetting{
			InstitutionID: institutionID,
			Key:           k,
			Value:         strconv.Itoa(v),
		})
		if err != nil {
			return nil, err
		}
	}

	return uc.GetSettings(ctx, institutionID)
}

func (uc *settingUC) GetLateToleranceMinutes(ctx context.Context, institutionID int) (int, error) {
	return uc.getInt(ctx, institutionID, domain.SettingLateToleranceMinutes)
}

func (uc *settingUC) GetMaxLatesPerMonth(ctx context.Context, institutionID int) (int, error) {
	return uc.getInt(ctx, institutionID, domain.SettingMaxLatesPerMonth)
}

// getInt falls back to the default when the key is unset or unreadable.
func (uc *settingUC) getInt(ctx context.Context, institutionID int, key string) (int, error) {
	def := domain.SettingDefaults[key]

	s, err := uc.settingRepo.GetSetting(ctx, institutionID, key)
	if errors.Is(err, domain.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}

	n, err := strconv.Atoi(s.Value)
	if err != nil || n < 0 {
		config.GetLogrusInstance().Warnf("setting %s of institution %d has invalid value %q, using %d", key, institutionID, s.Value, def)
		return def, nil
	}
	return n, nil
}
