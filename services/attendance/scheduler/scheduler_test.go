package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScan struct {
	missingCalls int
	absenceCalls int
	lastNow      time.Time
	err          error
	hadDeadline  bool
}

func (f *fakeScan) ScanMissingCheckouts(ctx context.Context, now time.Time) (int, error) {
	f.missingCalls++
	f.lastNow = now
	_, f.hadDeadline = ctx.Deadline()
	return 2, f.err
}

func (f *fakeScan) ScanAbsences(ctx context.Context, now time.Time) (int, error) {
	f.absenceCalls++
	f.lastNow = now
	_, f.hadDeadline = ctx.Deadline()
	return 1, f.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad missing checkout spec", Config{MissingCheckoutSpec: "nope", AbsenceSpec: "*/15 * * * *", RunTimeout: time.Minute}},
		{"bad absence spec", Config{MissingCheckoutSpec: "0 23 * * *", AbsenceSpec: "61 * * * *", RunTimeout: time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduler(&fakeScan{}, tt.cfg, quietLogger())
			assert.Error(t, err)
		})
	}
}

func TestScheduler_Run(t *testing.T) {
	fixed := time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC)
	orig := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = orig }()

	scan := &fakeScan{}
	s, err := NewScheduler(scan, Config{
		MissingCheckoutSpec: "0 23 * * *",
		AbsenceSpec:         "*/15 * * * *",
		RunTimeout:          time.Minute,
	}, quietLogger())
	require.NoError(t, err)

	s.run("missing_checkout", scan.ScanMissingCheckouts)
	assert.Equal(t, 1, scan.missingCalls)
	assert.Equal(t, fixed, scan.lastNow)
	assert.True(t, scan.hadDeadline)

	scan.err = errors.New("db down")
	s.job("absence", scan.ScanAbsences)()
	assert.Equal(t, 1, scan.absenceCalls)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(&fakeScan{}, Config{
		MissingCheckoutSpec: "0 23 * * *",
		AbsenceSpec:         "*/15 * * * *",
		RunTimeout:          time.Minute,
	}, quietLogger())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
