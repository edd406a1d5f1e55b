package domain

import (
	"context"
	"time"
)

// ScanUseCase holds the periodic jobs that raise alerts nobody triggers by hand.
type ScanUseCase interface {
	ScanMissingCheckouts(ctx context.Context, now time.Time) (int, error)
	ScanAbsences(ctx context.Context, now time.Time) (int, error)
}
