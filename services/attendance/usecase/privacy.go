package usecase

import (
	"context"
	"time"

	"fichai/domain"
)

type privacyUC struct {
	privacyRepo domain.PrivacyRepo
	TimeOut     time.Duration
}

func NewPrivacyUseCase(repo domain.PrivacyRepo, timeOut time.Duration) domain.PrivacyUseCase {
	return &privacyUC{
		privacyRepo: repo,
		TimeOut:     timeOut,
	}
}

func (uc *privacyUC) FileRequest(ctx context.Context, employeeID int, payload *domain.PrivacyRequestPayload) (*domain.PrivacyRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.privacyRepo.CreatePrivacyRequest(ctx, &domain.PrivacyRequest{
		EmployeeID: employeeID,
		Type:       domain.PrivacyRequestType(payload.Type),
		Status:     domain.PrivacyPending,
		Details:    payload.Details,
	})
}

func (uc *privacyUC) GetMyRequests(ctx context.Context, employeeID int) (*[]domain.PrivacyRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.privacyRepo.GetPrivacyRequestsByEmployee(ctx, employeeID)
}

func (uc *privacyUC) GetAllRequests(ctx context.Context, institutionID int) (*[]domain.PrivacyRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	return uc.privacyRepo.GetAllPrivacyRequests(ctx, institutionID)
}

// UpdateStatus moves a request along pending -> in_progress -> completed,
// with rejected reachable from either open state. Attendance records are
// kept whatever the outcome.
func (uc *privacyUC) UpdateStatus(ctx context.Context, institutionID, requestID, handlerID int, payload *domain.PrivacyStatusPayload) (*domain.PrivacyRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.TimeOut)
	defer cancel()

	req, err := uc.privacyRepo.GetPrivacyRequestByID(ctx, institutionID, requestID)
	if err != nil {
		return nil, err
	}

	from := req.Status
	to := domain.PrivacyRequestStatus(payload.Status)
	if !from.CanTransition(to) {
		return nil, domain.ErrInvalidStatusTransition
	}

	req.Status = to
	req.HandledBy = &handlerID
	if payload.Response != nil {
		req.Response = payload.Response
	}
	if to == domain.PrivacyCompleted || to == domain.PrivacyRejected {
		now := nowFunc()
		req.CompletedAt = &now
	}

	if err := uc.privacyRepo.UpdatePrivacyRequest(ctx, req, from); err != nil {
		return nil, err
	}
	return req, nil
}
