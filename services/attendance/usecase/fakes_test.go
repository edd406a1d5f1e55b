package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"fichai/domain"

	"github.com/bytedance/sonic"
)

type fakeEmployees struct {
	byID map[int]*domain.Employee
}

func newFakeEmployees(emps ...*domain.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: make(map[int]*domain.Employee)}
	for _, e := range emps {
		f.byID[e.EmployeeID] = e
	}
	return f
}

func (f *fakeEmployees) CreateEmployee(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	e.EmployeeID = len(f.byID) + 1
	f.byID[e.EmployeeID] = e
	return e, nil
}

func (f *fakeEmployees) list(institutionID int, keep func(*domain.Employee) bool) *[]domain.Employee {
	var out []domain.Employee
	for _, e := range f.byID {
		if e.InstitutionID == institutionID && keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return &out
}

func (f *fakeEmployees) GetAllEmployees(_ context.Context, institutionID int) (*[]domain.Employee, error) {
	return f.list(institutionID, func(*domain.Employee) bool { return true }), nil
}

func (f *fakeEmployees) GetActiveEmployees(_ context.Context, institutionID int) (*[]domain.Employee, error) {
	return f.list(institutionID, func(e *domain.Employee) bool { return e.IsActive }), nil
}

func (f *fakeEmployees) GetAdmins(_ context.Context, institutionID int) (*[]domain.Employee, error) {
	return f.list(institutionID, func(e *domain.Employee) bool { return e.IsActive && e.Role == domain.RoleAdmin }), nil
}

func (f *fakeEmployees) GetEmployeeByID(_ context.Context, id int) (*domain.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) GetEmployeeByUsername(_ context.Context, username string) (*domain.Employee, error) {
	for _, e := range f.byID {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEmployees) UpdateEmployee(_ context.Context, e *domain.Employee) error {
	f.byID[e.EmployeeID] = e
	return nil
}

func (f *fakeEmployees) DeactivateEmployee(_ context.Context, _ int, employeeID int) error {
	if e, ok := f.byID[employeeID]; ok {
		e.IsActive = false
		return nil
	}
	return domain.ErrNotFound
}

type fakeInstitutions struct {
	byID map[int]*domain.Institution
}

func newFakeInstitutions(insts ...*domain.Institution) *fakeInstitutions {
	f := &fakeInstitutions{byID: make(map[int]*domain.Institution)}
	for _, i := range insts {
		f.byID[i.InstitutionID] = i
	}
	return f
}

func (f *fakeInstitutions) GetAllInstitutions(context.Context) (*[]domain.Institution, error) {
	var out []domain.Institution
	for _, i := range f.byID {
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].InstitutionID < out[b].InstitutionID })
	return &out, nil
}

func (f *fakeInstitutions) GetInstitutionByID(_ context.Context, id int) (*domain.Institution, error) {
	i, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (f *fakeInstitutions) UpdateKioskSecret(_ context.Context, id int, secret string) error {
	i, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	i.KioskSecret = &secret
	return nil
}

// fakeAttendance serialises appends with a mutex the way the real
// repository does with a row lock.
type fakeAttendance struct {
	mu      sync.Mutex
	records []domain.AttendanceRecord
	usedJTI map[string]bool
	emps    *fakeEmployees
}

func newFakeAttendance(emps *fakeEmployees, records ...domain.AttendanceRecord) *fakeAttendance {
	return &fakeAttendance{records: records, usedJTI: make(map[string]bool), emps: emps}
}

func (f *fakeAttendance) between(keep func(domain.AttendanceRecord) bool, from, to time.Time) []domain.AttendanceRecord {
	var out []domain.AttendanceRecord
	for _, r := range f.records {
		if keep(r) && !r.Timestamp.Before(from) && r.Timestamp.Before(to) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].AttendanceID < out[j].AttendanceID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (f *fakeAttendance) GetRecordsBetween(_ context.Context, employeeID int, from, to time.Time) (*[]domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.between(func(r domain.AttendanceRecord) bool { return r.EmployeeID == employeeID }, from, to)
	return &out, nil
}

func (f *fakeAttendance) GetInstitutionRecordsBetween(_ context.Context, institutionID int, from, to time.Time) (*[]domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.between(func(r domain.AttendanceRecord) bool {
		e, ok := f.emps.byID[r.EmployeeID]
		return ok && e.InstitutionID == institutionID
	}, from, to)
	return &out, nil
}

func (f *fakeAttendance) AppendAttendanceRecord(_ context.Context, employeeID int, dayStart, dayEnd time.Time, qrJTI *string, build domain.AppendFunc) (*domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	day := f.between(func(r domain.AttendanceRecord) bool { return r.EmployeeID == employeeID }, dayStart, dayEnd)
	rec, err := build(day)
	if err != nil {
		return nil, err
	}
	if qrJTI != nil {
		if f.usedJTI[*qrJTI] {
			return nil, domain.ErrQRTokenReused
		}
		f.usedJTI[*qrJTI] = true
	}

	rec.AttendanceID = len(f.records) + 1
	f.records = append(f.records, *rec)
	return rec, nil
}

type fakeSchedules struct {
	entries []domain.ScheduleEntry
	emps    *fakeEmployees
}

func (f *fakeSchedules) GetScheduleByEmployee(_ context.Context, employeeID int) (*[]domain.ScheduleEntry, error) {
	var out []domain.ScheduleEntry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return &out, nil
}

func (f *fakeSchedules) ReplaceSchedule(_ context.Context, employeeID int, entries *[]domain.ScheduleEntry) error {
	var kept []domain.ScheduleEntry
	for _, e := range f.entries {
		if e.EmployeeID != employeeID {
			kept = append(kept, e)
		}
	}
	f.entries = append(kept, *entries...)
	return nil
}

func (f *fakeSchedules) GetExpectedStartTime(_ context.Context, employeeID int, dayOfWeek int) (*domain.Tod, error) {
	var earliest *domain.Tod
	for _, e := range f.entries {
		if e.EmployeeID != employeeID || e.DayOfWeek != dayOfWeek {
			continue
		}
		if earliest == nil || e.StartTime.Before(*earliest) {
			start := e.StartTime
			earliest = &start
		}
	}
	return earliest, nil
}

func (f *fakeSchedules) GetInstitutionScheduleForDay(_ context.Context, institutionID int, dayOfWeek int) (*[]domain.ScheduleEntry, error) {
	var out []domain.ScheduleEntry
	for _, e := range f.entries {
		emp, ok := f.emps.byID[e.EmployeeID]
		if !ok || emp.InstitutionID != institutionID || e.DayOfWeek != dayOfWeek {
			continue
		}
		cp := *emp
		e.Employee = &cp
		out = append(out, e)
	}
	return &out, nil
}

type fakeSettings struct {
	values map[int]map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[int]map[string]string)}
}

func (f *fakeSettings) GetSettings(_ context.Context, institutionID int) (*[]domain.InstitutionSetting, error) {
	var out []domain.InstitutionSetting
	for k, v := range f.values[institutionID] {
		out = append(out, domain.InstitutionSetting{InstitutionID: institutionID, Key: k, Value: v})
	}
	return &out, nil
}

func (f *fakeSettings) GetSetting(_ context.Context, institutionID int, key string) (*domain.InstitutionSetting, error) {
	v, ok := f.values[institutionID][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.InstitutionSetting{InstitutionID: institutionID, Key: key, Value: v}, nil
}

func (f *fakeSettings) UpsertSetting(_ context.Context, s *domain.InstitutionSetting) error {
	if f.values[s.InstitutionID] == nil {
		f.values[s.InstitutionID] = make(map[string]string)
	}
	f.values[s.InstitutionID][s.Key] = s.Value
	return nil
}

type fakeAlerts struct {
	mu     sync.Mutex
	alerts []domain.Alert
}

func (f *fakeAlerts) CreateAlert(_ context.Context, a *domain.Alert) (*domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.AlertID = len(f.alerts) + 1
	if a.CreatedAt.IsZero() {
		a.CreatedAt = nowFunc()
	}
	f.alerts = append(f.alerts, *a)
	return a, nil
}

func (f *fakeAlerts) GetAlertByID(_ context.Context, institutionID, alertID int) (*domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.alerts {
		if a.AlertID == alertID && a.InstitutionID == institutionID {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAlerts) GetAllAlerts(_ context.Context, institutionID int, filter domain.AlertFilter) (*[]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Alert
	for _, a := range f.alerts {
		if a.InstitutionID != institutionID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, a)
	}
	return &out, nil
}

func (f *fakeAlerts) UpdateAlertStatus(_ context.Context, institutionID, alertID int, from, to domain.AlertStatus, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.alerts {
		a := &f.alerts[i]
		if a.AlertID != alertID || a.InstitutionID != institutionID {
			continue
		}
		if a.Status != from {
			return domain.ErrAlertNotActive
		}
		a.Status = to
		a.ResolvedBy = &userID
		return nil
	}
	return domain.ErrNotFound
}

func (f *fakeAlerts) ResolveAlertsBetween(_ context.Context, employeeID int, alertType domain.AlertType, from, to time.Time, userID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.alerts {
		a := &f.alerts[i]
		if a.EmployeeID == employeeID && a.Type == alertType && a.Status == domain.AlertActive &&
			!a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			a.Status = domain.AlertResolved
			a.ResolvedBy = &userID
			n++
		}
	}
	return n, nil
}

func isEscalation(a domain.Alert) bool {
	if len(a.Metadata) == 0 {
		return false
	}
	var meta map[string]interface{}
	if err := sonic.Unmarshal(a.Metadata, &meta); err != nil {
		return false
	}
	_, ok := meta[domain.MetadataEscalation]
	return ok
}

func (f *fakeAlerts) CountAlertsSince(_ context.Context, employeeID int, alertType domain.AlertType, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.alerts {
		if a.EmployeeID == employeeID && a.Type == alertType && !a.CreatedAt.Before(since) && !isEscalation(a) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAlerts) ofType(t domain.AlertType) []domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Alert
	for _, a := range f.alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

type fakeJustifications struct {
	items []domain.AbsenceJustification
	emps  *fakeEmployees
}

func (f *fakeJustifications) CreateJustification(_ context.Context, j *domain.AbsenceJustification) (*domain.AbsenceJustification, error) {
	j.JustificationID = len(f.items) + 1
	f.items = append(f.items, *j)
	return j, nil
}

func (f *fakeJustifications) GetJustificationByID(_ context.Context, institutionID, id int) (*domain.AbsenceJustification, error) {
	for _, j := range f.items {
		if j.JustificationID == id && f.emps.byID[j.EmployeeID].InstitutionID == institutionID {
			return &j, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeJustifications) GetAllJustifications(_ context.Context, institutionID int, status *domain.JustificationStatus) (*[]domain.AbsenceJustification, error) {
	var out []domain.AbsenceJustification
	for _, j := range f.items {
		if f.emps.byID[j.EmployeeID].InstitutionID != institutionID {
			continue
		}
		if status != nil && j.Status != *status {
			continue
		}
		out = append(out, j)
	}
	return &out, nil
}

func (f *fakeJustifications) ReviewJustification(_ context.Context, id int, to domain.JustificationStatus, reviewerID int) error {
	for i := range f.items {
		if f.items[i].JustificationID == id {
			f.items[i].Status = to
			f.items[i].ReviewedBy = &reviewerID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeJustifications) HasApprovedJustification(_ context.Context, employeeID int, date string) (bool, error) {
	for _, j := range f.items {
		if j.EmployeeID == employeeID && dateOnly(j.Date) == date && j.Status == domain.JustificationApproved {
			return true, nil
		}
	}
	return false, nil
}

type fakePrivacy struct {
	items []domain.PrivacyRequest
}

func (f *fakePrivacy) CreatePrivacyRequest(_ context.Context, r *domain.PrivacyRequest) (*domain.PrivacyRequest, error) {
	r.RequestID = len(f.items) + 1
	f.items = append(f.items, *r)
	return r, nil
}

func (f *fakePrivacy) GetPrivacyRequestByID(_ context.Context, _ int, id int) (*domain.PrivacyRequest, error) {
	for _, r := range f.items {
		if r.RequestID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePrivacy) GetAllPrivacyRequests(context.Context, int) (*[]domain.PrivacyRequest, error) {
	out := append([]domain.PrivacyRequest(nil), f.items...)
	return &out, nil
}

func (f *fakePrivacy) GetPrivacyRequestsByEmployee(_ context.Context, employeeID int) (*[]domain.PrivacyRequest, error) {
	var out []domain.PrivacyRequest
	for _, r := range f.items {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return &out, nil
}

func (f *fakePrivacy) UpdatePrivacyRequest(_ context.Context, req *domain.PrivacyRequest, from domain.PrivacyRequestStatus) error {
	for i := range f.items {
		if f.items[i].RequestID != req.RequestID {
			continue
		}
		if f.items[i].Status != from {
			return domain.ErrInvalidStatusTransition
		}
		f.items[i] = *req
		return nil
	}
	return domain.ErrNotFound
}

// withNow pins nowFunc for the duration of a test.
func withNow(t interface{ Cleanup(func()) }, now time.Time) {
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}
