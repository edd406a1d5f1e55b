package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fichai/config"
	"fichai/domain"

	"github.com/sirupsen/logrus"
)

const maxWorkers = 10

type notificationUC struct {
	repo         domain.NotificationRepo
	employeeRepo domain.EmployeeRepo
	channels     []domain.AlertChannel
	appName      string
	contactPhone string
	TimeOut      time.Duration
}

func NewNotificationUseCase(repo domain.NotificationRepo, employeeRepo domain.EmployeeRepo, channels []domain.AlertChannel, appName, contactPhone string, timeOut time.Duration) domain.NotificationUseCase {
	return &notificationUC{
		repo:         repo,
		employeeRepo: employeeRepo,
		channels:     channels,
		appName:      appName,
		contactPhone: contactPhone,
		TimeOut:      timeOut,
	}
}

func (nuc *notificationUC) GetAllNotificationHistory(ctx context.Context, institutionID int) (*[]domain.AlertNotificationHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, nuc.TimeOut)
	defer cancel()

	return nuc.repo.GetAllNotificationHistory(ctx, institutionID)
}

// DispatchAlert sends alert to every admin of its institution over every
// configured channel and records one history row per admin.
func (nuc *notificationUC) DispatchAlert(ctx context.Context, alert *domain.Alert) error {
	if len(nuc.channels) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, nuc.TimeOut)
	defer cancel()

	admins, err := nuc.employeeRepo.GetAdmins(ctx, alert.InstitutionID)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	workerPool := make(chan struct{}, maxWorkers)
	errChan := make(chan error, len(*admins))

	for _, admin := range *admins {
		wg.Add(1)
		workerPool <- struct{}{}

		go func(recipient domain.Employee) {
			defer wg.Done()
			defer func() { <-workerPool }()

			if err := nuc.notify(ctx, &recipient, alert); err != nil {
				errChan <- err
			}
		}(admin)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		for _, err := range errs {
			config.GetLogrusInstance().WithError(err).WithField("alert_id", alert.AlertID).Warn("alert delivery error")
		}
		return fmt.Errorf("encountered %d errors while dispatching alert %d", len(errs), alert.AlertID)
	}
	return nil
}

func (nuc *notificationUC) notify(ctx context.Context, recipient *domain.Employee, alert *domain.Alert) error {
	subject, body := ComposeAlertMessage(nuc.appName, nuc.contactPhone, recipient, alert)

	status := make(map[string]bool, len(nuc.channels))
	var failed []string
	for _, ch := range nuc.channels {
		if !ch.Reachable(recipient) {
			continue
		}
		if err := ch.Send(ctx, recipient, subject, body); err != nil {
			config.GetLogrusInstance().WithFields(logrus.Fields{
				"channel":      ch.Name(),
				"recipient_id": recipient.EmployeeID,
				"alert_id":     alert.AlertID,
			}).WithError(err).Warn("channel send failed")
			failed = append(failed, ch.Name())
			continue
		}
		status[ch.Name()] = true
	}

	err := nuc.repo.LogNotificationHistory(ctx, &domain.AlertNotificationHistory{
		AlertID:        alert.AlertID,
		RecipientID:    recipient.EmployeeID,
		EmailStatus:    status[domain.ChannelEmail],
		WhatsappStatus: status[domain.ChannelWhatsapp],
		SMSStatus:      status[domain.ChannelSMS],
	})
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("recipient %d: %v failed", recipient.EmployeeID, failed)
	}
	return nil
}
