package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTod(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "08:00:00"},
		{in: "08:00:30", want: "08:00:30"},
		{in: " 23:59 ", want: "23:59:00"},
		{in: "09:15:00.000000", want: "09:15:00"},
		{in: "24:00", wantErr: true},
		{in: "8am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTod_On(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	day := time.Date(2025, 3, 12, 22, 45, 0, 0, loc)

	got := MustParseTod("08:30").On(day)
	assert.Equal(t, time.Date(2025, 3, 12, 8, 30, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestTod_Scan(t *testing.T) {
	var tod Tod

	require.NoError(t, tod.Scan("07:45:00"))
	assert.Equal(t, "07:45:00", tod.String())

	require.NoError(t, tod.Scan([]byte("12:00:00")))
	assert.Equal(t, "12:00:00", tod.String())

	require.NoError(t, tod.Scan(time.Date(2000, 1, 1, 16, 5, 9, 0, time.UTC)))
	assert.Equal(t, "16:05:09", tod.String())

	assert.Error(t, tod.Scan(42))

	v, err := MustParseTod("09:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", v)
}

func TestTod_JSON(t *testing.T) {
	entry := ScheduleEntry{StartTime: MustParseTod("08:00"), EndTime: MustParseTod("14:30")}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start_time":"08:00:00"`)

	var back ScheduleEntry
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "14:30:00", back.EndTime.String())

	assert.Error(t, json.Unmarshal([]byte(`{"start_time":"late"}`), &back))
}

func TestISOWeekday(t *testing.T) {
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, ISOWeekday(monday.AddDate(0, 0, i)))
	}
}
