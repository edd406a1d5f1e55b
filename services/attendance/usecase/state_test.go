package usecase

import (
	"testing"
	"time"

	"fichai/domain"

	"github.com/stretchr/testify/assert"
)

var madrid = mustLocation("Europe/Madrid")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 2*60*60)
	}
	return loc
}

func at(day, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, madrid)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(id int, typ domain.AttendanceType, ts time.Time) domain.AttendanceRecord {
	return domain.AttendanceRecord{AttendanceID: id, EmployeeID: 1, Type: typ, Timestamp: ts, Method: domain.MethodWeb}
}

var (
	wantCheckIn  = domain.AttendanceState{NextAction: domain.CheckIn, CheckInDisabled: false, CheckOutDisabled: true}
	wantCheckOut = domain.AttendanceState{NextAction: domain.CheckOut, CheckInDisabled: true, CheckOutDisabled: false}
)

func TestResolveAttendanceState(t *testing.T) {
	today := "2025-03-12"
	yesterday := "2025-03-11"

	tests := []struct {
		name    string
		records []domain.AttendanceRecord
		now     time.Time
		want    domain.AttendanceState
	}{
		{
			name:    "nil records",
			records: nil,
			now:     at(today, "09:00"),
			want:    wantCheckIn,
		},
		{
			name:    "empty records",
			records: []domain.AttendanceRecord{},
			now:     at(today, "09:00"),
			want:    wantCheckIn,
		},
		{
			name:    "checked in this morning",
			records: []domain.AttendanceRecord{rec(1, domain.CheckIn, at(today, "08:00"))},
			now:     at(today, "14:00"),
			want:    wantCheckOut,
		},
		{
			name: "checked in and out",
			records: []domain.AttendanceRecord{
				rec(1, domain.CheckIn, at(today, "08:00")),
				rec(2, domain.CheckOut, at(today, "14:00")),
			},
			now:  at(today, "14:30"),
			want: wantCheckIn,
		},
		{
			name: "input order does not matter",
			records: []domain.AttendanceRecord{
				rec(3, domain.CheckIn, at(today, "15:00")),
				rec(1, domain.CheckIn, at(today, "08:00")),
				rec(2, domain.CheckOut, at(today, "14:00")),
			},
			now:  at(today, "16:00"),
			want: wantCheckOut,
		},
		{
			name:    "yesterday check-in is ignored",
			records: []domain.AttendanceRecord{rec(1, domain.CheckIn, at(yesterday, "08:00"))},
			now:     at(today, "09:00"),
			want:    wantCheckIn,
		},
		{
			name: "yesterday check-in with today check-out",
			records: []domain.AttendanceRecord{
				rec(1, domain.CheckOut, at(today, "07:00")),
				rec(2, domain.CheckIn, at(yesterday, "23:00")),
			},
			now:  at(today, "09:00"),
			want: wantCheckIn,
		},
		{
			name:    "tomorrow record is ignored",
			records: []domain.AttendanceRecord{rec(1, domain.CheckIn, at("2025-03-13", "08:00"))},
			now:     at(today, "09:00"),
			want:    wantCheckIn,
		},
		{
			name: "identical timestamps use the larger id",
			records: []domain.AttendanceRecord{
				rec(8, domain.CheckOut, at(today, "12:00")),
				rec(7, domain.CheckIn, at(today, "12:00")),
			},
			now:  at(today, "13:00"),
			want: wantCheckIn,
		},
		{
			name: "identical timestamps use the larger id regardless of order",
			records: []domain.AttendanceRecord{
				rec(9, domain.CheckIn, at(today, "12:00")),
				rec(8, domain.CheckOut, at(today, "12:00")),
			},
			now:  at(today, "13:00"),
			want: wantCheckOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAttendanceState(tt.records, tt.now))
		})
	}
}

func TestResolveAttendanceState_CalendarDayInNowLocation(t *testing.T) {
	// 23:30 UTC on the 11th is already the 12th in Madrid
	utc := time.Date(2025, 3, 11, 23, 30, 0, 0, time.UTC)
	records := []domain.AttendanceRecord{rec(1, domain.CheckIn, utc)}

	assert.Equal(t, wantCheckOut, ResolveAttendanceState(records, at("2025-03-12", "09:00")))
	assert.Equal(t, wantCheckIn, ResolveAttendanceState(records, at("2025-03-11", "22:00")))
}

func TestDayBounds(t *testing.T) {
	start, end := dayBounds(at("2025-03-30", "15:45"))
	assert.Equal(t, at("2025-03-30", "00:00"), start)
	assert.Equal(t, at("2025-03-31", "00:00"), end)
	assert.True(t, sameDay(start, at("2025-03-30", "23:59")))
	assert.False(t, sameDay(end, at("2025-03-30", "23:59")))
}
