package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fichai/domain"
)

type scheduleUC struct {
	scheduleRepo domain.ScheduleRepo
	employeeRepo domain.EmployeeRepo
	TimeOut      time.Duration
}

func NewScheduleUseCase(scheduleRepo domain.ScheduleRepo, employeeRepo domain.EmployeeRepo, timeOut time.Duration) domain.ScheduleUseCase {
	return &scheduleUC{
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		TimeOut:      timeOut,
	}
}

func (uc *scheduleUC) GetScheduleByEmployee(ctx context.Context, institutionID, employeeID int) (*[]domain.ScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	if err := uc.checkEmployee(ctx, institutionID, employeeID); err != nil {
		return nil, err
	}
	return uc.scheduleRepo.GetScheduleByEmployee(ctx, employeeID)
}

func (uc *scheduleUC) ReplaceSchedule(ctx context.Context, institutionID, employeeID int, payload *[]domain.ScheduleEntryPayload) (*[]domain.ScheduleEntry, error) {
	entries, err := buildScheduleEntries(employeeID, *payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	if err := uc.checkEmployee(ctx, institutionID, employeeID); err != nil {
		return nil, err
	}
	if err := uc.scheduleRepo.ReplaceSchedule(ctx, employeeID, &entries); err != nil {
		return nil, err
	}
	return uc.scheduleRepo.GetScheduleByEmployee(ctx, employeeID)
}

// GetWeek lays the employee's schedule over the ISO week that contains date.
func (uc *scheduleUC) GetWeek(ctx context.Context, employeeID int, date time.Time) (*[]domain.ScheduleDay, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	entries, err := uc.scheduleRepo.GetScheduleByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	week := buildWeek(*entries, date)
	return &week, nil
}

func (uc *scheduleUC) checkEmployee(ctx context.Context, institutionID, employeeID int) error {
	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.InstitutionID != institutionID {
		return domain.ErrNotFound
	}
	return nil
}

func buildScheduleEntries(employeeID int, payload []domain.ScheduleEntryPayload) ([]domain.ScheduleEntry, error) {
	entries := make([]domain.ScheduleEntry, 0, len(payload))
	for i, p := range payload {
		if p.DayOfWeek < 1 || p.DayOfWeek > 7 {
			return nil, fmt.Errorf("%w: entry %d: day_of_week must be 1 (Monday) to 7 (Sunday)", domain.ErrInvalidSchedule, i)
		}
		start, err := domain.ParseTod(p.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidSchedule, i, err)
		}
		end, err := domain.ParseTod(p.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidSchedule, i, err)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: entry %d: start_time must be before end_time", domain.ErrInvalidSchedule, i)
		}

		lective := true
		if p.IsLectiveTime != nil {
			lective = *p.IsLectiveTime
		}
		entries = append(entries, domain.ScheduleEntry{
			EmployeeID:    employeeID,
			DayOfWeek:     p.DayOfWeek,
			StartTime:     start,
			EndTime:       end,
			IsLectiveTime: lective,
		})
	}
	return entries, nil
}

func buildWeek(entries []domain.ScheduleEntry, date time.Time) []domain.ScheduleDay {
	day, _ := dayBounds(date)
	monday := day.AddDate(0, 0, 1-domain.ISOWeekday(day))

	byDay := make(map[int][]domain.ScheduleEntry, 7)
	for _, e := range entries {
		byDay[e.DayOfWeek] = append(byDay[e.DayOfWeek], e)
	}

	week := make([]domain.ScheduleDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		dayEntries := byDay[i+1]
		sort.SliceStable(dayEntries, func(a, b int) bool {
			return dayEntries[a].StartTime.Before(dayEntries[b].StartTime)
		})
		if dayEntries == nil {
			dayEntries = []domain.ScheduleEntry{}
		}
		week = append(week, domain.ScheduleDay{
			Date:      d.Format("2006-01-02"),
			DayOfWeek: i + 1,
			Entries:   dayEntries,
		})
	}
	return week
}
