package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"fichai/domain"

	"github.com/xuri/excelize/v2"
)

var reportHeader = []string{"Employee ID", "Name", "Username", "Days present", "Worked minutes", "Late arrivals", "Missing checkouts"}

type reportUC struct {
	institutionRepo domain.InstitutionRepo
	employeeRepo    domain.EmployeeRepo
	attendanceRepo  domain.AttendanceRepo
	scheduleRepo    domain.ScheduleRepo
	settingUC       domain.SettingUseCase
	TimeOut         time.Duration
}

func NewReportUseCase(
	institutionRepo domain.InstitutionRepo,
	employeeRepo domain.EmployeeRepo,
	attendanceRepo domain.AttendanceRepo,
	scheduleRepo domain.ScheduleRepo,
	settingUC domain.SettingUseCase,
	timeOut time.Duration,
) domain.ReportUseCase {
	return &reportUC{
		institutionRepo: institutionRepo,
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		scheduleRepo:    scheduleRepo,
		settingUC:       settingUC,
		TimeOut:         timeOut,
	}
}

func (uc *reportUC) GetMonthlyReport(ctx context.Context, institutionID int, month string) (*domain.MonthlyReport, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	inst, err := uc.institutionRepo.GetInstitutionByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	loc := inst.Location()

	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: month %q, expected YYYY-MM", domain.ErrInvalidDate, month)
	}
	end := start.AddDate(0, 1, 0)

	employees, err := uc.employeeRepo.GetAllEmployees(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	records, err := uc.attendanceRepo.GetInstitutionRecordsBetween(ctx, institutionID, start, end)
	if err != nil {
		return nil, err
	}
	tolerance, err := uc.settingUC.GetLateToleranceMinutes(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	schedules := make(map[int][]domain.ScheduleEntry, len(*employees))
	for _, e := range *employees {
		entries, err := uc.scheduleRepo.GetScheduleByEmployee(ctx, e.EmployeeID)
		if err != nil {
			return nil, err
		}
		schedules[e.EmployeeID] = *entries
	}

	rows := BuildMonthlyReport(*employees, *records, schedules, tolerance, loc, nowFunc())
	return &domain.MonthlyReport{
		InstitutionID: institutionID,
		Month:         month,
		Rows:          rows,
	}, nil
}

func (uc *reportUC) ExportMonthlyReport(ctx context.Context, institutionID int, month, format string) ([]byte, error) {
	if format != domain.ReportFormatXLSX && format != domain.ReportFormatCSV {
		return nil, fmt.Errorf("unsupported report format %q", format)
	}

	report, err := uc.GetMonthlyReport(ctx, institutionID, month)
	if err != nil {
		return nil, err
	}

	if format == domain.ReportFormatCSV {
		return EncodeReportCSV(report)
	}
	return EncodeReportXLSX(report)
}

type employeeDay struct {
	employeeID int
	date       string
}

// BuildMonthlyReport aggregates one row per employee. Worked time is the sum
// of check-in to check-out pairs inside each day; a day whose last record is a
// check-in counts as a missing checkout once the day is over.
func BuildMonthlyReport(employees []domain.Employee, records []domain.AttendanceRecord, schedules map[int][]domain.ScheduleEntry, tolerance int, loc *time.Location, now time.Time) []domain.MonthlyReportRow {
	days := make(map[employeeDay][]domain.AttendanceRecord)
	for _, r := range records {
		key := employeeDay{r.EmployeeID, r.Timestamp.In(loc).Format("2006-01-02")}
		days[key] = append(days[key], r)
	}

	rowByEmployee := make(map[int]*domain.MonthlyReportRow, len(employees))
	rows := make([]domain.MonthlyReportRow, len(employees))
	for i, e := range employees {
		rows[i] = domain.MonthlyReportRow{EmployeeID: e.EmployeeID, Name: e.Name, Username: e.Username}
		rowByEmployee[e.EmployeeID] = &rows[i]
	}

	today := now.In(loc).Format("2006-01-02")
	for key, dayRecords := range days {
		row, ok := rowByEmployee[key.employeeID]
		if !ok {
			continue
		}
		sort.SliceStable(dayRecords, func(a, b int) bool {
			ra, rb := dayRecords[a], dayRecords[b]
			if ra.Timestamp.Equal(rb.Timestamp) {
				return ra.AttendanceID < rb.AttendanceID
			}
			return ra.Timestamp.Before(rb.Timestamp)
		})

		var openedAt *time.Time
		var firstCheckIn *time.Time
		for i := range dayRecords {
			r := dayRecords[i]
			switch r.Type {
			case domain.CheckIn:
				if firstCheckIn == nil {
					ts := r.Timestamp
					firstCheckIn = &ts
				}
				if openedAt == nil {
					ts := r.Timestamp
					openedAt = &ts
				}
			case domain.CheckOut:
				if openedAt != nil {
					row.WorkedMinutes += int(r.Timestamp.Sub(*openedAt) / time.Minute)
					openedAt = nil
				}
			}
		}

		if firstCheckIn == nil {
			continue
		}
		row.DaysPresent++
		if openedAt != nil && dayRecords[len(dayRecords)-1].Type == domain.CheckIn && key.date < today {
			row.MissingCheckouts++
		}

		checkIn := firstCheckIn.In(loc)
		lateness := ClassifyLateness(checkIn, expectedStartFor(schedules[key.employeeID], domain.ISOWeekday(checkIn)))
		if ExceedsTolerance(lateness.LateMinutes, tolerance) {
			row.LateArrivals++
		}
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Name < rows[b].Name })
	return rows
}

// expectedStartFor returns the earliest start among the entries of dayOfWeek.
func expectedStartFor(entries []domain.ScheduleEntry, dayOfWeek int) *domain.Tod {
	var earliest *domain.Tod
	for i := range entries {
		if entries[i].DayOfWeek != dayOfWeek {
			continue
		}
		if earliest == nil || entries[i].StartTime.Before(*earliest) {
			t := entries[i].StartTime
			earliest = &t
		}
	}
	return earliest
}

func reportRecord(r domain.MonthlyReportRow) []string {
	return []string{
		strconv.Itoa(r.EmployeeID),
		r.Name,
		r.Username,
		strconv.Itoa(r.DaysPresent),
		strconv.Itoa(r.WorkedMinutes),
		strconv.Itoa(r.LateArrivals),
		strconv.Itoa(r.MissingCheckouts),
	}
}

func EncodeReportCSV(report *domain.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, r := range report.Rows {
		if err := w.Write(reportRecord(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv report: %w", err)
	}
	return buf.Bytes(), nil
}

func EncodeReportXLSX(report *domain.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := report.Month
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", bold); err != nil {
		return nil, err
	}

	for i, r := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{r.EmployeeID, r.Name, r.Username, r.DaysPresent, r.WorkedMinutes, r.LateArrivals, r.MissingCheckouts}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "B", "C", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx report: %w", err)
	}
	return buf.Bytes(), nil
}
