package usecase

import (
	"time"

	"fichai/domain"
)

// ResolveAttendanceState decides the next action from the records that fall
// on now's calendar date. The most recent record wins; records sharing a
// timestamp are ordered by AttendanceID.
func ResolveAttendanceState(records []domain.AttendanceRecord, now time.Time) domain.AttendanceState {
	var latest *domain.AttendanceRecord
	for i := range records {
		r := &records[i]
		if !sameDay(r.Timestamp, now) {
			continue
		}
		if latest == nil || isAfter(r, latest) {
			latest = r
		}
	}

	if latest != nil && latest.Type == domain.CheckIn {
		return domain.AttendanceState{
			NextAction:       domain.CheckOut,
			CheckInDisabled:  true,
			CheckOutDisabled: false,
		}
	}
	return domain.AttendanceState{
		NextAction:       domain.CheckIn,
		CheckInDisabled:  false,
		CheckOutDisabled: true,
	}
}

func isAfter(a, b *domain.AttendanceRecord) bool {
	if a.Timestamp.Equal(b.Timestamp) {
		return a.AttendanceID > b.AttendanceID
	}
	return a.Timestamp.After(b.Timestamp)
}

// sameDay compares calendar dates in ref's location.
func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dayBounds returns [00:00, next 00:00) of t's calendar date in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
