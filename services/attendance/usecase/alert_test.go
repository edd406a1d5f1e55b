package usecase

import (
	"context"
	"testing"
	"time"

	"fichai/domain"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanDispatcher struct {
	got chan *domain.Alert
}

func (d *chanDispatcher) DispatchAlert(_ context.Context, a *domain.Alert) error {
	d.got <- a
	return nil
}

func TestAlertUseCase_CreateAlert(t *testing.T) {
	f := newAttendanceFixture(t)
	dispatcher := &chanDispatcher{got: make(chan *domain.Alert, 1)}
	uc := NewAlertUseCase(f.alerts, f.employees, dispatcher, time.Second)
	withNow(t, at("2025-03-12", "10:00"))

	alert, err := uc.CreateAlert(context.Background(), 1, domain.AlertSubstituteNeeded, "Cover 2B", "Ana is ill", map[string]interface{}{"created_by": 9})
	require.NoError(t, err)
	assert.Equal(t, 1, alert.InstitutionID)
	assert.Equal(t, domain.AlertActive, alert.Status)
	require.NotNil(t, alert.Employee)
	assert.Equal(t, "Ana", alert.Employee.Name)

	var meta map[string]interface{}
	require.NoError(t, sonic.Unmarshal(alert.Metadata, &meta))
	assert.EqualValues(t, 9, meta["created_by"])

	select {
	case dispatched := <-dispatcher.got:
		assert.Equal(t, alert.AlertID, dispatched.AlertID)
	case <-time.After(time.Second):
		t.Fatal("alert was not dispatched")
	}
}

func TestAlertUseCase_CreateAlertErrors(t *testing.T) {
	f := newAttendanceFixture(t)
	uc := NewAlertUseCase(f.alerts, f.employees, nil, time.Second)

	_, err := uc.CreateAlert(context.Background(), 1, "coffee", "t", "d", nil)
	assert.Error(t, err)

	_, err = uc.CreateAlert(context.Background(), 99, domain.AlertAbsence, "t", "d", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.alerts.alerts)
}

func TestAlertUseCase_Transitions(t *testing.T) {
	f := newAttendanceFixture(t)
	uc := NewAlertUseCase(f.alerts, f.employees, nil, time.Second)
	ctx := context.Background()
	withNow(t, at("2025-03-12", "10:00"))

	first, err := uc.CreateAlert(ctx, 1, domain.AlertAbsence, "Absence", "", nil)
	require.NoError(t, err)
	second, err := uc.CreateAlert(ctx, 1, domain.AlertAbsence, "Absence", "", nil)
	require.NoError(t, err)

	require.NoError(t, uc.ResolveAlert(ctx, 1, first.AlertID, 7))
	assert.ErrorIs(t, uc.DismissAlert(ctx, 1, first.AlertID, 7), domain.ErrAlertNotActive)

	require.NoError(t, uc.DismissAlert(ctx, 1, second.AlertID, 7))
	assert.ErrorIs(t, uc.ResolveAlert(ctx, 1, second.AlertID, 7), domain.ErrAlertNotActive)

	// alerts of another institution are invisible
	assert.ErrorIs(t, uc.ResolveAlert(ctx, 2, first.AlertID, 7), domain.ErrNotFound)

	resolved := domain.AlertResolved
	list, err := uc.GetAllAlerts(ctx, 1, domain.AlertFilter{Status: &resolved})
	require.NoError(t, err)
	require.Len(t, *list, 1)
	assert.Equal(t, first.AlertID, (*list)[0].AlertID)
}
