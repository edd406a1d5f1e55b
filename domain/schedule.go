package domain

import (
	"context"
	"time"
)

// ScheduleEntry is an expected working slot on an ISO weekday (1 = Monday).
type ScheduleEntry struct {
	ScheduleID    int       `gorm:"primaryKey;autoIncrement" json:"schedule_id"`
	EmployeeID    int       `gorm:"not null;index:idx_schedule_employee_day" json:"employee_id"`
	Employee      *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employee,omitempty"`
	DayOfWeek     int       `gorm:"not null;index:idx_schedule_employee_day" json:"day_of_week"`
	StartTime     Tod       `gorm:"type:time;not null" json:"start_time"`
	EndTime       Tod       `gorm:"type:time;not null" json:"end_time"`
	IsLectiveTime bool      `gorm:"not null;default:true" json:"is_lective_time"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type ScheduleEntryPayload struct {
	DayOfWeek     int    `json:"day_of_week"`
	StartTime     string `json:"start_time" valid:"required~Start time is required"`
	EndTime       string `json:"end_time" valid:"required~End time is required"`
	IsLectiveTime *bool  `json:"is_lective_time"`
}

type ScheduleDay struct {
	Date      string          `json:"date"`
	DayOfWeek int             `json:"day_of_week"`
	Entries   []ScheduleEntry `json:"entries"`
}

type ScheduleRepo interface {
	GetScheduleByEmployee(ctx context.Context, employeeID int) (*[]ScheduleEntry, error)
	ReplaceSchedule(ctx context.Context, employeeID int, entries *[]ScheduleEntry) error
	GetExpectedStartTime(ctx context.Context, employeeID int, dayOfWeek int) (*Tod, error)
	GetInstitutionScheduleForDay(ctx context.Context, institutionID int, dayOfWeek int) (*[]ScheduleEntry, error)
}

type ScheduleUseCase interface {
	GetScheduleByEmployee(ctx context.Context, institutionID, employeeID int) (*[]ScheduleEntry, error)
	ReplaceSchedule(ctx context.Context, institutionID, employeeID int, payload *[]ScheduleEntryPayload) (*[]ScheduleEntry, error)
	GetWeek(ctx context.Context, employeeID int, date time.Time) (*[]ScheduleDay, error)
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
