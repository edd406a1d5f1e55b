package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fichai/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) domain.AttendanceRepo {
	return &attendanceRepository{
		db: db,
	}
}

func (r *attendanceRepository) GetRecordsBetween(ctx context.Context, employeeID int, from, to time.Time) (*[]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND timestamp >= ? AND timestamp < ?", employeeID, from, to).
		Order("timestamp, attendance_id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("could not get attendance records: %w", err)
	}
	return &records, nil
}

func (r *attendanceRepository) GetInstitutionRecordsBetween(ctx context.Context, institutionID int, from, to time.Time) (*[]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.employee_id = attendance_records.employee_id").
		Where("employees.institution_id = ? AND attendance_records.timestamp >= ? AND attendance_records.timestamp < ?", institutionID, from, to).
		Order("attendance_records.timestamp, attendance_records.attendance_id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("could not get institution attendance records: %w", err)
	}
	return &records, nil
}

// AppendAttendanceRecord serialises writers per employee by locking the
// employee row, then hands the day's records to build and stores what it
// returns. A non-nil qrJTI is consumed in the same transaction.
func (r *attendanceRepository) AppendAttendanceRecord(ctx context.Context, employeeID int, dayStart, dayEnd time.Time, qrJTI *string, build domain.AppendFunc) (*domain.AttendanceRecord, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var employee domain.Employee
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		First(&employee).Error
	if err != nil {
		tx.Rollback()
		return nil, notFound(err)
	}

	var dayRecords []domain.AttendanceRecord
	err = tx.Where("employee_id = ? AND timestamp >= ? AND timestamp < ?", employeeID, dayStart, dayEnd).
		Order("timestamp, attendance_id").
		Find(&dayRecords).Error
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not get day records: %w", err)
	}

	record, err := build(dayRecords)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if qrJTI != nil {
		use := domain.QRTokenUse{JTI: *qrJTI, EmployeeID: employeeID}
		if err := tx.Create(&use).Error; err != nil {
			tx.Rollback()
			if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, domain.ErrQRTokenReused
			}
			return nil, fmt.Errorf("could not store qr token use: %w", err)
		}
	}

	if err := tx.Create(record).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not insert attendance record: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("could not commit attendance record: %w", err)
	}
	return record, nil
}
