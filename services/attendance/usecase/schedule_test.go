package usecase

import (
	"context"
	"testing"
	"time"

	"fichai/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildScheduleEntries(t *testing.T) {
	tests := []struct {
		name    string
		payload []domain.ScheduleEntryPayload
		wantErr bool
	}{
		{name: "empty week", payload: nil},
		{name: "valid", payload: []domain.ScheduleEntryPayload{
			{DayOfWeek: 1, StartTime: "08:00", EndTime: "14:00"},
			{DayOfWeek: 7, StartTime: "10:00:00", EndTime: "12:30", IsLectiveTime: boolPtr(false)},
		}},
		{name: "day zero", payload: []domain.ScheduleEntryPayload{{DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00"}}, wantErr: true},
		{name: "day eight", payload: []domain.ScheduleEntryPayload{{DayOfWeek: 8, StartTime: "08:00", EndTime: "09:00"}}, wantErr: true},
		{name: "bad start", payload: []domain.ScheduleEntryPayload{{DayOfWeek: 1, StartTime: "8am", EndTime: "09:00"}}, wantErr: true},
		{name: "end before start", payload: []domain.ScheduleEntryPayload{{DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}}, wantErr: true},
		{name: "empty slot", payload: []domain.ScheduleEntryPayload{{DayOfWeek: 1, StartTime: "10:00", EndTime: "10:00"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := buildScheduleEntries(5, tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
				return
			}
			require.NoError(t, err)
			require.Len(t, entries, len(tt.payload))
			for i, e := range entries {
				assert.Equal(t, 5, e.EmployeeID)
				assert.Equal(t, tt.payload[i].IsLectiveTime == nil || *tt.payload[i].IsLectiveTime, e.IsLectiveTime)
			}
		})
	}
}

func TestBuildWeek(t *testing.T) {
	entries := []domain.ScheduleEntry{
		{DayOfWeek: 3, StartTime: domain.MustParseTod("12:00"), EndTime: domain.MustParseTod("14:00")},
		{DayOfWeek: 3, StartTime: domain.MustParseTod("08:00"), EndTime: domain.MustParseTod("10:00")},
		{DayOfWeek: 7, StartTime: domain.MustParseTod("09:00"), EndTime: domain.MustParseTod("10:00")},
	}

	for _, date := range []time.Time{at("2025-03-10", "00:00"), at("2025-03-12", "18:00"), at("2025-03-16", "23:59")} {
		t.Run(date.Format("Mon"), func(t *testing.T) {
			week := buildWeek(entries, date)
			require.Len(t, week, 7)
			assert.Equal(t, "2025-03-10", week[0].Date)
			assert.Equal(t, "2025-03-16", week[6].Date)
			for i, d := range week {
				assert.Equal(t, i+1, d.DayOfWeek)
				assert.NotNil(t, d.Entries)
			}
			require.Len(t, week[2].Entries, 2)
			assert.Equal(t, "08:00:00", week[2].Entries[0].StartTime.String())
			assert.Len(t, week[6].Entries, 1)
			assert.Empty(t, week[0].Entries)
		})
	}
}

func TestScheduleUseCase_ReplaceSchedule(t *testing.T) {
	f := newAttendanceFixture(t)
	uc := NewScheduleUseCase(f.schedules, f.employees, time.Second)
	ctx := context.Background()

	f.scheduleEveryDay("09:00")
	payload := []domain.ScheduleEntryPayload{{DayOfWeek: 2, StartTime: "08:30", EndTime: "13:30"}}

	entries, err := uc.ReplaceSchedule(ctx, 1, 1, &payload)
	require.NoError(t, err)
	require.Len(t, *entries, 1)
	assert.Equal(t, 2, (*entries)[0].DayOfWeek)

	start, err := f.schedules.GetExpectedStartTime(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", start.String())

	_, err = uc.ReplaceSchedule(ctx, 1, 3, &payload)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetScheduleByEmployee(ctx, 2, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
