package usecase

import (
	"context"
	"fmt"
	"time"

	"fichai/config"
	"fichai/domain"

	"github.com/sirupsen/logrus"
)

type scanUC struct {
	institutionRepo   domain.InstitutionRepo
	employeeRepo      domain.EmployeeRepo
	attendanceRepo    domain.AttendanceRepo
	scheduleRepo      domain.ScheduleRepo
	justificationRepo domain.JustificationRepo
	settingUC         domain.SettingUseCase
	alertUC           domain.AlertUseCase
}

func NewScanUseCase(
	institutionRepo domain.InstitutionRepo,
	employeeRepo domain.EmployeeRepo,
	attendanceRepo domain.AttendanceRepo,
	scheduleRepo domain.ScheduleRepo,
	justificationRepo domain.JustificationRepo,
	settingUC domain.SettingUseCase,
	alertUC domain.AlertUseCase,
) domain.ScanUseCase {
	return &scanUC{
		institutionRepo:   institutionRepo,
		employeeRepo:      employeeRepo,
		attendanceRepo:    attendanceRepo,
		scheduleRepo:      scheduleRepo,
		justificationRepo: justificationRepo,
		settingUC:         settingUC,
		alertUC:           alertUC,
	}
}

// ScanMissingCheckouts raises one missing_checkout alert per employee and day
// when the last record of the day is still a check-in.
func (uc *scanUC) ScanMissingCheckouts(ctx context.Context, now time.Time) (int, error) {
	institutions, err := uc.institutionRepo.GetAllInstitutions(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, inst := range *institutions {
		today := now.In(inst.Location())
		start, end := dayBounds(today)

		employees, err := uc.employeeRepo.GetActiveEmployees(ctx, inst.InstitutionID)
		if err != nil {
			return created, err
		}
		records, err := uc.attendanceRepo.GetInstitutionRecordsBetween(ctx, inst.InstitutionID, start, end)
		if err != nil {
			return created, err
		}
		byEmployee := groupByEmployee(*records)

		for _, emp := range *employees {
			if ResolveAttendanceState(byEmployee[emp.EmployeeID], today).NextAction != domain.CheckOut {
				continue
			}
			ok, err := uc.raiseOnce(ctx, &emp, domain.AlertMissingCheckout, start,
				fmt.Sprintf("Missing checkout: %s", emp.Name),
				fmt.Sprintf("%s checked in on %s and has not checked out.", emp.Name, today.Format("2006-01-02")),
				map[string]interface{}{"date": today.Format("2006-01-02")})
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}

// ScanAbsences raises one absence alert per employee and day when the
// expected start plus the late tolerance has passed without a check-in and
// no approved justification covers the date.
func (uc *scanUC) ScanAbsences(ctx context.Context, now time.Time) (int, error) {
	institutions, err := uc.institutionRepo.GetAllInstitutions(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, inst := range *institutions {
		today := now.In(inst.Location())
		start, end := dayBounds(today)
		date := today.Format("2006-01-02")

		entries, err := uc.scheduleRepo.GetInstitutionScheduleForDay(ctx, inst.InstitutionID, domain.ISOWeekday(today))
		if err != nil {
			return created, err
		}
		if len(*entries) == 0 {
			continue
		}

		tolerance, err := uc.settingUC.GetLateToleranceMinutes(ctx, inst.InstitutionID)
		if err != nil {
			return created, err
		}
		records, err := uc.attendanceRepo.GetInstitutionRecordsBetween(ctx, inst.InstitutionID, start, end)
		if err != nil {
			return created, err
		}
		checkedIn := make(map[int]bool)
		for _, r := range *records {
			if r.Type == domain.CheckIn {
				checkedIn[r.EmployeeID] = true
			}
		}

		for _, due := range dueEmployees(*entries, today, tolerance) {
			if checkedIn[due.employee.EmployeeID] {
				continue
			}
			justified, err := uc.justificationRepo.HasApprovedJustification(ctx, due.employee.EmployeeID, date)
			if err != nil {
				return created, err
			}
			if justified {
				continue
			}

			ok, err := uc.raiseOnce(ctx, due.employee, domain.AlertAbsence, start,
				fmt.Sprintf("Absence: %s", due.employee.Name),
				fmt.Sprintf("%s was expected at %s on %s and has not checked in.", due.employee.Name, due.start.Format("15:04"), date),
				map[string]interface{}{
					"date":           date,
					"expected_start": due.start.String(),
				})
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}

func (uc *scanUC) raiseOnce(ctx context.Context, emp *domain.Employee, alertType domain.AlertType, dayStart time.Time, title, description string, metadata map[string]interface{}) (bool, error) {
	n, err := uc.alertUC.CountAlertsSince(ctx, emp.EmployeeID, alertType, dayStart)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	if _, err := uc.alertUC.CreateAlert(ctx, emp.EmployeeID, alertType, title, description, metadata); err != nil {
		return false, err
	}
	config.GetLogrusInstance().WithFields(logrus.Fields{
		"employee_id": emp.EmployeeID,
		"type":        alertType,
	}).Info("scan raised alert")
	return true, nil
}

type dueEmployee struct {
	employee *domain.Employee
	start    domain.Tod
}

// dueEmployees keeps active employees whose earliest start of the day plus
// tolerance is not after now.
func dueEmployees(entries []domain.ScheduleEntry, now time.Time, tolerance int) []dueEmployee {
	earliest := make(map[int]*domain.ScheduleEntry)
	var order []int
	for i := range entries {
		e := &entries[i]
		if e.Employee == nil || !e.Employee.IsActive {
			continue
		}
		cur, seen := earliest[e.EmployeeID]
		if !seen {
			order = append(order, e.EmployeeID)
		}
		if !seen || e.StartTime.Before(cur.StartTime) {
			earliest[e.EmployeeID] = e
		}
	}

	var due []dueEmployee
	for _, id := range order {
		e := earliest[id]
		deadline := e.StartTime.On(now).Add(time.Duration(tolerance) * time.Minute)
		if now.Before(deadline) {
			continue
		}
		due = append(due, dueEmployee{employee: e.Employee, start: e.StartTime})
	}
	return due
}

func groupByEmployee(records []domain.AttendanceRecord) map[int][]domain.AttendanceRecord {
	out := make(map[int][]domain.AttendanceRecord)
	for _, r := range records {
		out[r.EmployeeID] = append(out[r.EmployeeID], r)
	}
	return out
}
