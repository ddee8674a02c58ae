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
		want    TimeString
		wantErr bool
	}{
		{name: "plain HH:MM", input: "07:30", want: "07:30"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "postgres time with seconds", input: "18:45:00", want: "18:45"},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "minute out of range", input: "10:61", wantErr: true},
		{name: "garbage", input: "morning", wantErr: true},
		{name: "too long", input: "07:30:00.000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("07:00").IsBefore("08:00"))
	assert.True(t, TimeString("18:30").IsAfter("07:00"))
	assert.False(t, TimeString("07:00").IsBefore("07:00"))
	assert.False(t, TimeString("07:00").IsAfter("07:00"))
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("07:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("08:30"), got)

	// слоты не пересекают полночь
	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_MinutesUntil(t *testing.T) {
	minutes, err := TimeString("07:00").MinutesUntil("08:30")
	require.NoError(t, err)
	assert.Equal(t, 90, minutes)

	minutes, err = TimeString("08:30").MinutesUntil("07:00")
	require.NoError(t, err)
	assert.Equal(t, -90, minutes)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("09:15:00"))
	assert.Equal(t, TimeString("09:15"), ts)

	require.NoError(t, ts.Scan([]byte("10:00")))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.ErrorIs(t, ts.Scan(42), ErrInvalidTimeString)
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("07:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "07:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("not-a-time").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
