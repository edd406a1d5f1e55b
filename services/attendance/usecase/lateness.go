package usecase

import (
	"time"

	"fichai/domain"
)

const (
	slightlyLateMaxMinutes = 15
	lateMaxMinutes         = 30
)

// ClassifyLateness measures how late checkIn is against the expected start on
// the same calendar date. A nil expectation is always on time.
func ClassifyLateness(checkIn time.Time, expectedStart *domain.Tod) domain.Lateness {
	if expectedStart == nil {
		return domain.Lateness{LateMinutes: 0, Severity: domain.SeverityOnTime}
	}

	expected := expectedStart.On(checkIn)
	lateMinutes := int(checkIn.Sub(expected) / time.Minute)
	if lateMinutes < 0 {
		lateMinutes = 0
	}

	return domain.Lateness{
		LateMinutes: lateMinutes,
		Severity:    LatenessBand(lateMinutes),
	}
}

func LatenessBand(lateMinutes int) domain.LatenessSeverity {
	switch {
	case lateMinutes <= 0:
		return domain.SeverityOnTime
	case lateMinutes <= slightlyLateMaxMinutes:
		return domain.SeveritySlightlyLate
	case lateMinutes <= lateMaxMinutes:
		return domain.SeverityLate
	default:
		return domain.SeverityVeryLate
	}
}

// ExceedsTolerance is the alert trigger. It is independent of the display band.
func ExceedsTolerance(lateMinutes, toleranceMinutes int) bool {
	return lateMinutes > toleranceMinutes
}
