package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fichai/config"
	"fichai/domain"
)

type justificationUC struct {
	justificationRepo domain.JustificationRepo
	employeeRepo      domain.EmployeeRepo
	alertRepo         domain.AlertRepo
	TimeOut           time.Duration
}

func NewJustificationUseCase(justificationRepo domain.JustificationRepo, employeeRepo domain.EmployeeRepo, alertRepo domain.AlertRepo, timeOut time.Duration) domain.JustificationUseCase {
	return &justificationUC{
		justificationRepo: justificationRepo,
		employeeRepo:      employeeRepo,
		alertRepo:         alertRepo,
		TimeOut:           timeOut,
	}
}

func (uc *justificationUC) SubmitJustification(ctx context.Context, employeeID int, req *domain.JustificationRequest) (*domain.AbsenceJustification, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", domain.ErrInvalidDate, req.Date)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.justificationRepo.CreateJustification(ctx, &domain.AbsenceJustification{
		EmployeeID: employeeID,
		Date:       req.Date,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     domain.JustificationPending,
	})
}

func (uc *justificationUC) GetAllJustifications(ctx context.Context, institutionID int, status *domain.JustificationStatus) (*[]domain.AbsenceJustification, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.justificationRepo.GetAllJustifications(ctx, institutionID, status)
}

// ApproveJustification also resolves the absence alerts raised for that date.
func (uc *justificationUC) ApproveJustification(ctx context.Context, institutionID, justificationID, reviewerID int) error {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	j, err := uc.review(ctx, institutionID, justificationID, reviewerID, domain.JustificationApproved)
	if err != nil {
		return err
	}

	emp, err := uc.employeeRepo.GetEmployeeByID(ctx, j.EmployeeID)
	if err != nil {
		return err
	}
	day, err := time.ParseInLocation("2006-01-02", dateOnly(j.Date), emp.Institution.Location())
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDate, j.Date)
	}
	start, end := dayBounds(day)

	n, err := uc.alertRepo.ResolveAlertsBetween(ctx, j.EmployeeID, domain.AlertAbsence, start, end, reviewerID)
	if err != nil {
		return err
	}
	config.GetLogrusInstance().Infof("justification %d approved, %d absence alerts resolved", justificationID, n)
	return nil
}

func (uc *justificationUC) RejectJustification(ctx context.Context, institutionID, justificationID, reviewerID int) error {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	_, err := uc.review(ctx, institutionID, justificationID, reviewerID, domain.JustificationRejected)
	return err
}

func (uc *justificationUC) review(ctx context.Context, institutionID, justificationID, reviewerID int, to domain.JustificationStatus) (*domain.AbsenceJustification, error) {
	j, err := uc.justificationRepo.GetJustificationByID(ctx, institutionID, justificationID)
	if err != nil {
		return nil, err
	}
	if j.Status != domain.JustificationPending {
		return nil, domain.ErrInvalidStatusTransition
	}
	if err := uc.justificationRepo.ReviewJustification(ctx, justificationID, to, reviewerID); err != nil {
		return nil, err
	}
	j.Status = to
	return j, nil
}

// dateOnly trims the time part postgres adds when a DATE column is read into a string.
func dateOnly(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
