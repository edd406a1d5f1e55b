package usecase

import (
	"context"
	"testing"
	"time"

	"fichai/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFixture struct {
	*attendanceFixture
	scan           domain.ScanUseCase
	justifications *fakeJustifications
}

// newScanFixture schedules Ana (1), inactive Old (2), Carl (4) and Dan (5)
// from 09:00 on Wednesdays.
func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()
	f := newAttendanceFixture(t)
	for _, e := range []*domain.Employee{
		{EmployeeID: 4, InstitutionID: 1, Institution: f.inst, Name: "Carl", Username: "carl", Role: domain.RoleEmployee, IsActive: true},
		{EmployeeID: 5, InstitutionID: 1, Institution: f.inst, Name: "Dan", Username: "dan", Role: domain.RoleEmployee, IsActive: true},
	} {
		f.employees.byID[e.EmployeeID] = e
	}
	for _, id := range []int{1, 2, 4, 5} {
		f.schedules.entries = append(f.schedules.entries,
			domain.ScheduleEntry{EmployeeID: id, DayOfWeek: 3, StartTime: domain.MustParseTod("11:00"), EndTime: domain.MustParseTod("14:00")},
			domain.ScheduleEntry{EmployeeID: id, DayOfWeek: 3, StartTime: domain.MustParseTod("09:00"), EndTime: domain.MustParseTod("10:00")},
		)
	}

	justifications := &fakeJustifications{emps: f.employees}
	settingUC := NewSettingUseCase(f.settings, time.Second)
	alertUC := NewAlertUseCase(f.alerts, f.employees, nil, time.Second)
	scan := NewScanUseCase(newFakeInstitutions(f.inst), f.employees, f.records, f.schedules, justifications, settingUC, alertUC)

	return &scanFixture{attendanceFixture: f, scan: scan, justifications: justifications}
}

func TestScanAbsences(t *testing.T) {
	f := newScanFixture(t)
	ctx := context.Background()

	withNow(t, at("2025-03-12", "09:05"))
	_, err := f.uc.CheckIn(ctx, 4, nil)
	require.NoError(t, err)
	f.justifications.items = append(f.justifications.items, domain.AbsenceJustification{
		JustificationID: 1, EmployeeID: 5, Date: "2025-03-12", Status: domain.JustificationApproved,
	})

	n, err := f.scan.ScanAbsences(ctx, at("2025-03-12", "09:14"))
	require.NoError(t, err)
	assert.Equal(t, 0, n, "tolerance not yet over")

	n, err = f.scan.ScanAbsences(ctx, at("2025-03-12", "09:15"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	absences := f.alerts.ofType(domain.AlertAbsence)
	require.Len(t, absences, 1)
	assert.Equal(t, 1, absences[0].EmployeeID)

	// once per employee and day
	n, err = f.scan.ScanAbsences(ctx, at("2025-03-12", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, f.alerts.ofType(domain.AlertAbsence), 1)
}

func TestScanAbsences_NotScheduledToday(t *testing.T) {
	f := newScanFixture(t)

	// 2025-03-13 is a Thursday
	withNow(t, at("2025-03-13", "12:00"))
	n, err := f.scan.ScanAbsences(context.Background(), at("2025-03-13", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestScanMissingCheckouts(t *testing.T) {
	f := newScanFixture(t)
	ctx := context.Background()

	withNow(t, at("2025-03-12", "09:00"))
	_, err := f.uc.CheckIn(ctx, 1, nil)
	require.NoError(t, err)
	_, err = f.uc.CheckIn(ctx, 4, nil)
	require.NoError(t, err)
	withNow(t, at("2025-03-12", "14:00"))
	_, err = f.uc.CheckOut(ctx, 4, nil)
	require.NoError(t, err)

	withNow(t, at("2025-03-12", "23:00"))
	n, err := f.scan.ScanMissingCheckouts(ctx, at("2025-03-12", "23:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	missing := f.alerts.ofType(domain.AlertMissingCheckout)
	require.Len(t, missing, 1)
	assert.Equal(t, 1, missing[0].EmployeeID)

	n, err = f.scan.ScanMissingCheckouts(ctx, at("2025-03-12", "23:30"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDueEmployees(t *testing.T) {
	active := &domain.Employee{EmployeeID: 1, IsActive: true}
	inactive := &domain.Employee{EmployeeID: 2, IsActive: false}
	entries := []domain.ScheduleEntry{
		{EmployeeID: 1, Employee: active, StartTime: domain.MustParseTod("11:00")},
		{EmployeeID: 1, Employee: active, StartTime: domain.MustParseTod("08:00")},
		{EmployeeID: 2, Employee: inactive, StartTime: domain.MustParseTod("08:00")},
	}

	tests := []struct {
		name      string
		now       time.Time
		tolerance int
		want      []int
	}{
		{"before deadline", at("2025-03-12", "08:09"), 10, nil},
		{"at deadline", at("2025-03-12", "08:10"), 10, []int{1}},
		{"zero tolerance", at("2025-03-12", "08:00"), 0, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, d := range dueEmployees(entries, tt.now, tt.tolerance) {
				got = append(got, d.employee.EmployeeID)
				assert.Equal(t, "08:00:00", d.start.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
