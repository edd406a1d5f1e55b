package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fichai/config"
	"fichai/domain"

	"github.com/sirupsen/logrus"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

// QRConfig holds the signing key and lifetime of employee QR tokens.
type QRConfig struct {
	Secret []byte
	TTL    time.Duration
}

type attendanceUC struct {
	attendanceRepo  domain.AttendanceRepo
	employeeRepo    domain.EmployeeRepo
	institutionRepo domain.InstitutionRepo
	scheduleRepo    domain.ScheduleRepo
	settingUC       domain.SettingUseCase
	alertUC         domain.AlertUseCase
	qr              QRConfig
	TimeOut         time.Duration
}

func NewAttendanceUseCase(
	attendanceRepo domain.AttendanceRepo,
	employeeRepo domain.EmployeeRepo,
	institutionRepo domain.InstitutionRepo,
	scheduleRepo domain.ScheduleRepo,
	settingUC domain.SettingUseCase,
	alertUC domain.AlertUseCase,
	qr QRConfig,
	timeOut time.Duration,
) domain.AttendanceUseCase {
	return &attendanceUC{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		institutionRepo: institutionRepo,
		scheduleRepo:    scheduleRepo,
		settingUC:       settingUC,
		alertUC:         alertUC,
		qr:              qr,
		TimeOut:         timeOut,
	}
}

func (uc *attendanceUC) GetToday(ctx context.Context, employeeID int) (*domain.TodayAttendance, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := nowFunc().In(emp.Institution.Location())
	start, end := dayBounds(now)
	records, err := uc.attendanceRepo.GetRecordsBetween(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	return &domain.TodayAttendance{
		Date:    now.Format("2006-01-02"),
		Records: *records,
		State:   ResolveAttendanceState(*records, now),
	}, nil
}

func (uc *attendanceUC) CheckIn(ctx context.Context, employeeID int, req *domain.AttendanceRequest) (*domain.AttendanceResult, error) {
	want := domain.CheckIn
	return uc.recordFor(ctx, employeeID, &want, domain.MethodWeb, req)
}

func (uc *attendanceUC) CheckOut(ctx context.Context, employeeID int, req *domain.AttendanceRequest) (*domain.AttendanceResult, error) {
	want := domain.CheckOut
	return uc.recordFor(ctx, employeeID, &want, domain.MethodWeb, req)
}

// Quick performs whichever action the resolver offers next.
func (uc *attendanceUC) Quick(ctx context.Context, employeeID int, req *domain.AttendanceRequest) (*domain.AttendanceResult, error) {
	return uc.recordFor(ctx, employeeID, nil, domain.MethodWeb, req)
}

func (uc *attendanceUC) recordFor(ctx context.Context, employeeID int, want *domain.AttendanceType, method domain.AttendanceMethod, req *domain.AttendanceRequest) (*domain.AttendanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	entry := attendanceEntry{want: want, at: nowFunc(), method: method}
	if req != nil {
		entry.location = req.Location
		entry.notes = req.Notes
	}
	return uc.record(ctx, emp, entry)
}

func (uc *attendanceUC) ManualEntry(ctx context.Context, institutionID int, req *domain.ManualAttendanceRequest) (*domain.AttendanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	typ := domain.AttendanceType(req.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAttendanceType, req.Type)
	}

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp.InstitutionID != institutionID {
		return nil, domain.ErrNotFound
	}

	at, err := ParseTimestamp(req.Timestamp, emp.Institution.Location())
	if err != nil {
		return nil, err
	}
	if at.After(nowFunc()) {
		return nil, fmt.Errorf("%w: %s is in the future", domain.ErrInvalidTimestamp, req.Timestamp)
	}

	return uc.record(ctx, emp, attendanceEntry{
		want:     &typ,
		at:       at,
		method:   domain.MethodManual,
		location: req.Location,
		notes:    req.Notes,
	})
}

func (uc *attendanceUC) GetHistory(ctx context.Context, institutionID, employeeID int, from, to time.Time) (*[]domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.InstitutionID != institutionID {
		return nil, domain.ErrNotFound
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", domain.ErrInvalidDate)
	}

	return uc.attendanceRepo.GetRecordsBetween(ctx, employeeID, from, to)
}

type attendanceEntry struct {
	want     *domain.AttendanceType
	at       time.Time
	method   domain.AttendanceMethod
	location *string
	notes    *string
	qrJTI    *string
}

// record appends one entry under the repository's per-employee lock and,
// for the first check-in of the day, evaluates lateness.
func (uc *attendanceUC) record(ctx context.Context, emp *domain.Employee, entry attendanceEntry) (*domain.AttendanceResult, error) {
	if !emp.IsActive {
		return nil, domain.ErrInactiveEmployee
	}

	at := entry.at.In(emp.Institution.Location())
	start, end := dayBounds(at)

	firstCheckIn := false
	build := func(dayRecords []domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
		typ, first, err := nextAttendanceType(dayRecords, at, entry.want)
		if err != nil {
			return nil, err
		}
		firstCheckIn = first
		return &domain.AttendanceRecord{
			EmployeeID: emp.EmployeeID,
			Type:       typ,
			Timestamp:  at,
			Method:     entry.method,
			Location:   entry.location,
			Notes:      entry.notes,
		}, nil
	}

	rec, err := uc.attendanceRepo.AppendAttendanceRecord(ctx, emp.EmployeeID, start, end, entry.qrJTI, build)
	if err != nil {
		return nil, err
	}

	result := &domain.AttendanceResult{
		Record: *rec,
		State:  ResolveAttendanceState([]domain.AttendanceRecord{*rec}, at),
	}

	if firstCheckIn {
		lateness, err := uc.evaluateLateness(ctx, emp, rec)
		if err != nil {
			// the record is stored; a failed alert must not undo it
			config.GetLogrusInstance().WithError(err).WithFields(logrus.Fields{
				"employee_id":   emp.EmployeeID,
				"attendance_id": rec.AttendanceID,
			}).Error("lateness evaluation failed")
		}
		result.Lateness = lateness
	}

	return result, nil
}

// nextAttendanceType applies the alternation rule at time at against the
// records of that day. want nil means "whatever comes next".
func nextAttendanceType(dayRecords []domain.AttendanceRecord, at time.Time, want *domain.AttendanceType) (domain.AttendanceType, bool, error) {
	var prior []domain.AttendanceRecord
	var following *domain.AttendanceRecord
	hadCheckIn := false
	for i := range dayRecords {
		r := &dayRecords[i]
		if r.Timestamp.After(at) {
			if following == nil || r.Timestamp.Before(following.Timestamp) {
				following = r
			}
			continue
		}
		prior = append(prior, *r)
		if r.Type == domain.CheckIn {
			hadCheckIn = true
		}
	}

	typ := ResolveAttendanceState(prior, at).NextAction
	if want != nil && *want != typ {
		return "", false, domain.ErrDuplicateAttendance
	}
	// a backdated entry must not produce two equal types in a row with the
	// record that already follows it
	if following != nil && following.Type == typ {
		return "", false, domain.ErrDuplicateAttendance
	}

	return typ, typ == domain.CheckIn && !hadCheckIn, nil
}

func (uc *attendanceUC) evaluateLateness(ctx context.Context, emp *domain.Employee, rec *domain.AttendanceRecord) (*domain.Lateness, error) {
	expected, err := uc.scheduleRepo.GetExpectedStartTime(ctx, emp.EmployeeID, domain.ISOWeekday(rec.Timestamp))
	if err != nil {
		return nil, err
	}

	lateness := ClassifyLateness(rec.Timestamp, expected)
	if expected == nil {
		return &lateness, nil
	}

	tolerance, err := uc.settingUC.GetLateToleranceMinutes(ctx, emp.InstitutionID)
	if err != nil {
		return &lateness, err
	}
	if !ExceedsTolerance(lateness.LateMinutes, tolerance) {
		return &lateness, nil
	}

	_, err = uc.alertUC.CreateAlert(ctx, emp.EmployeeID, domain.AlertLateArrival,
		fmt.Sprintf("Late arrival: %s", emp.Name),
		fmt.Sprintf("%s checked in at %s, %d minutes after the expected start %s.",
			emp.Name, rec.Timestamp.Format("15:04"), lateness.LateMinutes, expected.Format("15:04")),
		map[string]interface{}{
			"late_minutes":   lateness.LateMinutes,
			"severity":       lateness.Severity,
			"expected_start": expected.String(),
			"check_in":       rec.Timestamp.Format(time.RFC3339),
			"attendance_id":  rec.AttendanceID,
		})
	if err != nil {
		return &lateness, err
	}

	return &lateness, uc.escalateMonthlyLates(ctx, emp, rec.Timestamp)
}

// escalateMonthlyLates raises one extra alert the first time the month's
// late arrivals go past the institution limit.
func (uc *attendanceUC) escalateMonthlyLates(ctx context.Context, emp *domain.Employee, at time.Time) error {
	limit, err := uc.settingUC.GetMaxLatesPerMonth(ctx, emp.InstitutionID)
	if err != nil {
		return err
	}

	count, err := uc.alertUC.CountAlertsSince(ctx, emp.EmployeeID, domain.AlertLateArrival, monthStart(at))
	if err != nil {
		return err
	}
	if count != int64(limit)+1 {
		return nil
	}

	_, err = uc.alertUC.CreateAlert(ctx, emp.EmployeeID, domain.AlertLateArrival,
		fmt.Sprintf("Monthly late arrival limit exceeded: %s", emp.Name),
		fmt.Sprintf("%s has %d late arrivals in %s, above the limit of %d.", emp.Name, count, at.Format("2006-01"), limit),
		map[string]interface{}{
			domain.MetadataEscalation: true,
			"late_count":              count,
			"limit":                   limit,
			"month":                   at.Format("2006-01"),
		})
	return err
}

var timestampLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseTimestamp accepts RFC 3339, or a local wall-clock time read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimestamp, s)
}
