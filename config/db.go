package config

import (
	"errors"
	"fmt"
	"os"

	"fichai/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

// BootDB initializes the database connection and runs migrations.
func BootDB() (*gorm.DB, error) {
	var err error

	db, err = gorm.Open(postgres.Open(GetDatabaseURL()), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return db, err
	}

	GetLogrusInstance().Info("DB initialized")
	return db, nil
}

var enumTypes = []struct {
	name   string
	values string
}{
	{"role_enum", "'admin', 'employee'"},
	{"gender_enum", "'male', 'female'"},
	{"attendance_type_enum", "'check_in', 'check_out'"},
	{"attendance_method_enum", "'web', 'qr', 'nfc', 'manual'"},
	{"alert_type_enum", "'late_arrival', 'absence', 'missing_checkout', 'substitute_needed'"},
	{"alert_status_enum", "'active', 'resolved', 'dismissed'"},
	{"justification_status_enum", "'pending', 'approved', 'rejected'"},
	{"privacy_request_type_enum", "'access', 'rectification', 'erasure', 'portability'"},
	{"privacy_request_status_enum", "'pending', 'in_progress', 'completed', 'rejected'"},
}

func autoMigrate(db *gorm.DB) error {
	// enum types must exist before the tables that use them
	for _, e := range enumTypes {
		stmt := fmt.Sprintf(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = '%s') THEN
			CREATE TYPE %s AS ENUM (%s);
		END IF;
	END $$`, e.name, e.name, e.values)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", e.name, err)
		}
	}

	if err := db.AutoMigrate(
		&domain.Institution{},
		&domain.Employee{},
	); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.InstitutionSetting{},
		&domain.ScheduleEntry{},
		&domain.AttendanceRecord{},
		&domain.QRTokenUse{},
		&domain.Alert{},
		&domain.AlertNotificationHistory{},
		&domain.AbsenceJustification{},
		&domain.PrivacyRequest{},
	); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	return seed(db)
}

func seed(db *gorm.DB) error {
	var institution domain.Institution
	err := db.Order("institution_id").First(&institution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		GetLogrusInstance().Info("Creating default institution....")
		name := os.Getenv("INSTITUTION_NAME")
		if name == "" {
			name = GetAppName()
		}
		institution = domain.Institution{Name: name, Timezone: GetDefaultTimezone()}
		if err := db.Create(&institution).Error; err != nil {
			return fmt.Errorf("could not create default institution: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("could not look up institutions: %w", err)
	}

	var existingAdmin domain.Employee
	err = db.Where("role = ? AND deleted_at IS NULL", domain.RoleAdmin).First(&existingAdmin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("could not look up admin account: %w", err)
	}

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		GetLogrusInstance().Warn("no admin account and ADMIN_USERNAME/ADMIN_PASSWORD unset, skipping admin seed")
		return nil
	}

	GetLogrusInstance().Info("Creating default admin account....")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	adminName := os.Getenv("ADMIN_NAME")
	if adminName == "" {
		adminName = adminUsername
	}
	admin := domain.Employee{
		InstitutionID: institution.InstitutionID,
		Username:      adminUsername,
		Name:          adminName,
		Password:      string(hashedPassword),
		Role:          domain.RoleAdmin,
		IsActive:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("could not create admin account: %w", err)
	}
	GetLogrusInstance().Info("Admin account created")
	return nil
}
