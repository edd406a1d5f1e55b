package repository

import (
	"context"
	"fmt"

	"fichai/domain"

	"gorm.io/gorm"
)

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) domain.ScheduleRepo {
	return &scheduleRepository{
		db: db,
	}
}

func (r *scheduleRepository) GetScheduleByEmployee(ctx context.Context, employeeID int) (*[]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("day_of_week, start_time").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not get schedule: %w", err)
	}
	return &entries, nil
}

func (r *scheduleRepository) ReplaceSchedule(ctx context.Context, employeeID int, entries *[]domain.ScheduleEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&domain.ScheduleEntry{}).Error; err != nil {
			return fmt.Errorf("could not clear schedule: %w", err)
		}
		if len(*entries) == 0 {
			return nil
		}
		if err := tx.Create(entries).Error; err != nil {
			return fmt.Errorf("could not insert schedule: %w", err)
		}
		return nil
	})
}

// GetExpectedStartTime returns nil when the employee has nothing scheduled that day.
func (r *scheduleRepository) GetExpectedStartTime(ctx context.Context, employeeID int, dayOfWeek int) (*domain.Tod, error) {
	var entries []domain.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND day_of_week = ?", employeeID, dayOfWeek).
		Order("start_time").
		Limit(1).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not get expected start time: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0].StartTime, nil
}

func (r *scheduleRepository) GetInstitutionScheduleForDay(ctx context.Context, institutionID int, dayOfWeek int) (*[]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.employee_id = schedule_entries.employee_id").
		Where("employees.institution_id = ? AND employees.deleted_at IS NULL AND schedule_entries.day_of_week = ?", institutionID, dayOfWeek).
		Order("schedule_entries.start_time").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not get institution schedule: %w", err)
	}
	return &entries, nil
}
