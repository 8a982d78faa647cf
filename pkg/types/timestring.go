package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeStringFormat = "15:04"
	minutesPerDay    = 24 * 60
)

var (
	// ErrInvalidFormat is returned when a time string is not "HH:MM".
	ErrInvalidFormat = errors.New("invalid time string format, expected HH:MM")

	// ErrOutOfRange is returned when a computed time leaves the 00:00-23:59 range.
	ErrOutOfRange = errors.New("time is out of day range")
)

// TimeString is a wall-clock time of day in "HH:MM" form.
// It is the canonical representation for schedule blocks and appointment
// start/end times; all range math happens on minute-of-day integers.
type TimeString string

// NewTimeString builds a TimeString from the clock portion of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringFormat))
}

// NewTimeStringFromString parses and validates an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes converts a minute-of-day value back to "HH:MM".
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate checks the "HH:MM" shape and the hour/minute bounds.
func (t TimeString) Validate() error {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hour, minute, ok := splitDigits(s)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return nil
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// Minutes returns the minute-of-day value. The receiver must be valid;
// invalid values yield -1 so that comparisons fail loudly in range checks.
func (t TimeString) Minutes() int {
	hour, minute, ok := splitDigits(string(t))
	if !ok {
		return -1
	}
	return hour*60 + minute
}

// AddMinutes returns the time shifted forward by m minutes.
// Crossing midnight is an error: schedule blocks are same-day only.
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.Minutes() + m
	if total < 0 || total > minutesPerDay {
		return "", fmt.Errorf("%w: %s + %d minutes", ErrOutOfRange, t, m)
	}
	if total == minutesPerDay {
		// Ровно полночь допустима как конец интервала, но не как время суток
		return "", fmt.Errorf("%w: %s + %d minutes", ErrOutOfRange, t, m)
	}
	return NewTimeStringFromMinutes(total)
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Value implements driver.Valuer so TimeString can be written as TIME.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as
// "HH:MM:SS" strings or time.Time depending on the driver; both are accepted.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Отбрасываем секунды, если драйвер вернул HH:MM:SS
	if len(s) > 5 && strings.Count(s, ":") == 2 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func splitDigits(s string) (hour, minute int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, false
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	return hour, minute, true
}
