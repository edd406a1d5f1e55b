package usecase

import (
	"context"
	"fmt"
	"time"

	"fichai/config"
	"fichai/domain"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

type alertUC struct {
	alertRepo    domain.AlertRepo
	employeeRepo domain.EmployeeRepo
	dispatcher   domain.AlertDispatcher
	TimeOut      time.Duration
}

// NewAlertUseCase builds the alert usecase. dispatcher may be nil, in which
// case alerts are only stored.
func NewAlertUseCase(alertRepo domain.AlertRepo, employeeRepo domain.EmployeeRepo, dispatcher domain.AlertDispatcher, timeOut time.Duration) domain.AlertUseCase {
	return &alertUC{
		alertRepo:    alertRepo,
		employeeRepo: employeeRepo,
		dispatcher:   dispatcher,
		TimeOut:      timeOut,
	}
}

func (uc *alertUC) CreateAlert(ctx context.Context, employeeID int, alertType domain.AlertType, title, description string, metadata map[string]interface{}) (*domain.Alert, error) {
	if !alertType.Valid() {
		return nil, fmt.Errorf("unknown alert type %q", alertType)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	var meta datatypes.JSON
	if metadata != nil {
		raw, err := sonic.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode alert metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	alert, err := uc.alertRepo.CreateAlert(ctx, &domain.Alert{
		InstitutionID: emp.InstitutionID,
		EmployeeID:    emp.EmployeeID,
		Type:          alertType,
		Status:        domain.AlertActive,
		Title:         title,
		Description:   description,
		Metadata:      meta,
	})
	if err != nil {
		return nil, err
	}
	alert.Employee = emp

	if uc.dispatcher != nil {
		// delivery outlives the request that raised the alert
		go func(a domain.Alert) {
			if err := uc.dispatcher.DispatchAlert(context.Background(), &a); err != nil {
				config.GetLogrusInstance().WithError(err).WithField("alert_id", a.AlertID).Error("alert dispatch failed")
			}
		}(*alert)
	}

	return alert, nil
}

func (uc *alertUC) GetAlertByID(ctx context.Context, institutionID, alertID int) (*domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.alertRepo.GetAlertByID(ctx, institutionID, alertID)
}

func (uc *alertUC) GetAllAlerts(ctx context.Context, institutionID int, filter domain.AlertFilter) (*[]domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.alertRepo.GetAllAlerts(ctx, institutionID, filter)
}

func (uc *alertUC) ResolveAlert(ctx context.Context, institutionID, alertID, userID int) error {
	return uc.closeAlert(ctx, institutionID, alertID, userID, domain.AlertResolved)
}

func (uc *alertUC) DismissAlert(ctx context.Context, institutionID, alertID, userID int) error {
	return uc.closeAlert(ctx, institutionID, alertID, userID, domain.AlertDismissed)
}

func (uc *alertUC) closeAlert(ctx context.Context, institutionID, alertID, userID int, to domain.AlertStatus) error {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.alertRepo.UpdateAlertStatus(ctx, institutionID, alertID, domain.AlertActive, to, userID)
}

func (uc *alertUC) CountAlertsSince(ctx context.Context, employeeID int, alertType domain.AlertType, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.alertRepo.CountAlertsSince(ctx, employeeID, alertType, since)
}
