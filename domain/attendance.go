package domain

import (
	"context"
	"time"
)

type AttendanceType string

const (
	CheckIn  AttendanceType = "check_in"
	CheckOut AttendanceType = "check_out"
)

func (t AttendanceType) Valid() bool {
	switch t {
	case CheckIn, CheckOut:
		return true
	default:
		return false
	}
}

type AttendanceMethod string

const (
	MethodWeb    AttendanceMethod = "web"
	MethodQR     AttendanceMethod = "qr"
	MethodNFC    AttendanceMethod = "nfc"
	MethodManual AttendanceMethod = "manual"
)

// AttendanceRecord is an append-only check-in or check-out event.
type AttendanceRecord struct {
	AttendanceID int              `gorm:"primaryKey;autoIncrement" json:"attendance_id"`
	EmployeeID   int              `gorm:"not null;index:idx_attendance_employee_time" json:"employee_id"`
	Employee     *Employee        `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employee,omitempty"`
	Type         AttendanceType   `gorm:"type:attendance_type_enum;not null" json:"type"`
	Timestamp    time.Time        `gorm:"not null;index:idx_attendance_employee_time" json:"timestamp"`
	Method       AttendanceMethod `gorm:"type:attendance_method_enum;not null" json:"method"`
	Location     *string          `gorm:"type:varchar(255)" json:"location"`
	Notes        *string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// AttendanceState is what the quick attendance control should offer next.
type AttendanceState struct {
	NextAction       AttendanceType `json:"next_action"`
	CheckInDisabled  bool           `json:"check_in_disabled"`
	CheckOutDisabled bool           `json:"check_out_disabled"`
}

type TodayAttendance struct {
	Date    string             `json:"date"`
	Records []AttendanceRecord `json:"records"`
	State   AttendanceState    `json:"state"`
}

type LatenessSeverity string

const (
	SeverityOnTime       LatenessSeverity = "on_time"
	SeveritySlightlyLate LatenessSeverity = "slightly_late"
	SeverityLate         LatenessSeverity = "late"
	SeverityVeryLate     LatenessSeverity = "very_late"
)

type Lateness struct {
	LateMinutes int              `json:"late_minutes"`
	Severity    LatenessSeverity `json:"severity"`
}

// AttendanceResult is what a recording operation returns: the stored record,
// the lateness of a first check-in and the state the employee is left in.
type AttendanceResult struct {
	Record   AttendanceRecord `json:"record"`
	Lateness *Lateness        `json:"lateness,omitempty"`
	State    AttendanceState  `json:"state"`
}

type AttendanceRequest struct {
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

type ManualAttendanceRequest struct {
	EmployeeID int     `json:"employee_id" valid:"required~Employee ID is required"`
	Type       string  `json:"type" valid:"required~Type is required,in(check_in|check_out)~Invalid attendance type"`
	Timestamp  string  `json:"timestamp" valid:"required~Timestamp is required"`
	Location   *string `json:"location"`
	Notes      *string `json:"notes"`
}

// QRTokenUse marks a QR token id as consumed.
type QRTokenUse struct {
	JTI        string    `gorm:"primaryKey;type:varchar(64)" json:"jti"`
	EmployeeID int       `gorm:"not null;index" json:"employee_id"`
	UsedAt     time.Time `gorm:"autoCreateTime" json:"used_at"`
}

// AppendFunc receives the employee's records of the target day, read while the
// employee row is locked, and returns the record to insert.
type AppendFunc func(dayRecords []AttendanceRecord) (*AttendanceRecord, error)

type AttendanceRepo interface {
	GetRecordsBetween(ctx context.Context, employeeID int, from, to time.Time) (*[]AttendanceRecord, error)
	GetInstitutionRecordsBetween(ctx context.Context, institutionID int, from, to time.Time) (*[]AttendanceRecord, error)
	AppendAttendanceRecord(ctx context.Context, employeeID int, dayStart, dayEnd time.Time, qrJTI *string, build AppendFunc) (*AttendanceRecord, error)
}

type AttendanceUseCase interface {
	GetToday(ctx context.Context, employeeID int) (*TodayAttendance, error)
	CheckIn(ctx context.Context, employeeID int, req *AttendanceRequest) (*AttendanceResult, error)
	CheckOut(ctx context.Context, employeeID int, req *AttendanceRequest) (*AttendanceResult, error)
	Quick(ctx context.Context, employeeID int, req *AttendanceRequest) (*AttendanceResult, error)
	ManualEntry(ctx context.Context, institutionID int, req *ManualAttendanceRequest) (*AttendanceResult, error)
	GetHistory(ctx context.Context, institutionID, employeeID int, from, to time.Time) (*[]AttendanceRecord, error)
	IssueQRToken(ctx context.Context, employeeID int) (*QRToken, error)
	ScanQRToken(ctx context.Context, institutionID int, kioskCode, token string) (*AttendanceResult, error)
}
