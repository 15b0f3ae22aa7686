package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid morning", input: "09:00"},
		{name: "valid midnight", input: "00:00"},
		{name: "valid end of day", input: "23:59"},
		{name: "hours out of range", input: "24:00", wantErr: true},
		{name: "minutes out of range", input: "12:60", wantErr: true},
		{name: "missing zero padding", input: "9:00", wantErr: true},
		{name: "no separator", input: "0900", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").Minutes())
	assert.Equal(t, 540, TimeString("09:00").Minutes())
	assert.Equal(t, 1439, TimeString("23:59").Minutes())
	assert.Equal(t, 0, TimeString("bad").Minutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), ts)

	// Выход за пределы суток
	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_RoundUpToInterval(t *testing.T) {
	tests := []struct {
		input    TimeString
		interval int
		want     TimeString
	}{
		{input: "09:00", interval: 15, want: "09:00"},
		{input: "09:01", interval: 15, want: "09:15"},
		{input: "09:14", interval: 15, want: "09:15"},
		{input: "09:31", interval: 30, want: "10:00"},
		{input: "10:07", interval: 20, want: "10:20"},
	}

	for _, tt := range tests {
		got, err := tt.input.RoundUpToInterval(tt.interval)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input=%s interval=%d", tt.input, tt.interval)
	}

	_, err := TimeString("09:00").RoundUpToInterval(0)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     TimeString
		want                           bool
	}{
		{name: "disjoint", aStart: "09:00", aEnd: "10:00", bStart: "11:00", bEnd: "12:00", want: false},
		{name: "contained", aStart: "09:00", aEnd: "12:00", bStart: "10:00", bEnd: "11:00", want: true},
		{name: "partial overlap", aStart: "09:00", aEnd: "10:30", bStart: "10:00", bEnd: "11:00", want: true},
		// Полуоткрытые интервалы: касание границами - не пересечение
		{name: "touching edges", aStart: "09:00", aEnd: "10:00", bStart: "10:00", bEnd: "11:00", want: false},
		{name: "touching edges reversed", aStart: "10:00", aEnd: "11:00", bStart: "09:00", bEnd: "10:00", want: false},
		{name: "identical", aStart: "09:00", aEnd: "10:00", bStart: "09:00", bEnd: "10:00", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestTimeString_At(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	day := time.Date(2026, 3, 16, 0, 0, 0, 0, loc)
	got := TimeString("14:30").At(day)

	assert.Equal(t, time.Date(2026, 3, 16, 14, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("09:30"))
	assert.Equal(t, TimeString("09:30"), ts)

	// Postgres TIME приходит как "HH:MM:SS"
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("18:45")))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(12345))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("09:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("25:00").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
