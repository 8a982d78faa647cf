package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)
}

func TestNewTimeStringFromString_Invalid(t *testing.T) {
	cases := []string{"", "9:30", "09:30:00", "24:00", "12:60", "ab:cd", "09-30"}
	for _, s := range cases {
		_, err := NewTimeStringFromString(s)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", s)
	}
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 9, 8, 14, 5, 59, 0, time.UTC))
	assert.Equal(t, TimeString("14:05"), ts)
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(9*60 + 15)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:15"), ts)

	_, err = NewTimeStringFromMinutes(24 * 60)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewTimeStringFromMinutes(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").Minutes())
	assert.Equal(t, 23*60+59, TimeString("23:59").Minutes())
	assert.Equal(t, -1, TimeString("bogus").Minutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), ts)
}

func TestTimeString_AddMinutes_CrossesMidnight(t *testing.T) {
	// Блоки расписания не переходят через полночь
	_, err := TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// Ровно 24:00 тоже не время суток
	_, err = TimeString("23:00").AddMinutes(60)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:01").IsBefore("09:00"))
	assert.True(t, TimeString("18:00").IsAfter("17:59"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:00")))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 7, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("25:00").Value()
	assert.Error(t, err)
}
