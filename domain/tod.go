package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a wall-clock time of day stored in a Postgres TIME column.
type Tod struct{ time.Time }

var todLayouts = []string{"15:04:05.999999", "15:04:05", "15:04"}

func ParseTod(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func MustParseTod(s string) Tod {
	t, err := ParseTod(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range todLayouts {
		if tt, err := time.Parse(layout, s); err == nil {
			t.Time = time.Date(0, 1, 1, tt.Hour(), tt.Minute(), tt.Second(), 0, time.UTC)
			return nil
		}
	}
	return fmt.Errorf("tod: invalid time of day %q, expected HH:MM[:SS]", s)
}

// On places the time of day on the calendar date of day, in day's location.
func (t Tod) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, day.Location())
}

func (t Tod) Before(o Tod) bool {
	return t.Time.Before(o.Time)
}

func (t Tod) String() string {
	return t.Format("15:04:05")
}

func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		t.Time = time.Date(0, 1, 1, x.Hour(), x.Minute(), x.Second(), 0, time.UTC)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t Tod) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
