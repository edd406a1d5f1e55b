package usecase

import (
	"context"
	"testing"
	"time"

	"fichai/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivacyUseCase_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		steps   []domain.PrivacyRequestStatus
		wantErr bool
	}{
		{name: "complete", steps: []domain.PrivacyRequestStatus{domain.PrivacyInProgress, domain.PrivacyCompleted}},
		{name: "reject pending", steps: []domain.PrivacyRequestStatus{domain.PrivacyRejected}},
		{name: "reject in progress", steps: []domain.PrivacyRequestStatus{domain.PrivacyInProgress, domain.PrivacyRejected}},
		{name: "skip in progress", steps: []domain.PrivacyRequestStatus{domain.PrivacyCompleted}, wantErr: true},
		{name: "reopen completed", steps: []domain.PrivacyRequestStatus{domain.PrivacyInProgress, domain.PrivacyCompleted, domain.PrivacyInProgress}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePrivacy{}
			uc := NewPrivacyUseCase(repo, time.Second)
			ctx := context.Background()
			withNow(t, at("2025-03-12", "10:00"))

			req, err := uc.FileRequest(ctx, 1, &domain.PrivacyRequestPayload{Type: "erasure"})
			require.NoError(t, err)
			assert.Equal(t, domain.PrivacyPending, req.Status)

			var last error
			for _, s := range tt.steps {
				req, last = uc.UpdateStatus(ctx, 1, req.RequestID, 9, &domain.PrivacyStatusPayload{Status: string(s)})
				if last != nil {
					break
				}
			}
			if tt.wantErr {
				assert.ErrorIs(t, last, domain.ErrInvalidStatusTransition)
				return
			}
			require.NoError(t, last)
			assert.Equal(t, tt.steps[len(tt.steps)-1], req.Status)
			require.NotNil(t, req.HandledBy)
			assert.Equal(t, 9, *req.HandledBy)
			require.NotNil(t, req.CompletedAt)
		})
	}
}

func TestPrivacyUseCase_Listing(t *testing.T) {
	repo := &fakePrivacy{}
	uc := NewPrivacyUseCase(repo, time.Second)
	ctx := context.Background()

	for _, emp := range []int{1, 1, 2} {
		_, err := uc.FileRequest(ctx, emp, &domain.PrivacyRequestPayload{Type: "access"})
		require.NoError(t, err)
	}

	mine, err := uc.GetMyRequests(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, *mine, 2)

	all, err := uc.GetAllRequests(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, *all, 3)
}
