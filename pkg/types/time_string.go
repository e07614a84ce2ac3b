package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// MinutesPerDay upper bound for a wall-clock value
const MinutesPerDay = 24 * 60

var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString wall-clock time of day in "HH:MM" form.
// The zero value is "not set".
type TimeString struct {
	minutes int
	valid   bool
}

// NewTimeStringFromString parses "HH:MM" (seconds, if present, are dropped)
func NewTimeStringFromString(s string) (TimeString, error) {
	if len(s) == 8 {
		s = s[:5]
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString{minutes: t.Hour()*60 + t.Minute(), valid: true}, nil
}

// MustTimeString panics on malformed input. For constants and tests.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// NewTimeString takes the wall-clock part of t
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), valid: true}
}

// NewTimeStringFromMinutes builds a value from minutes since midnight
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes out of range", ErrInvalidTimeString, minutes)
	}
	return TimeString{minutes: minutes, valid: true}, nil
}

// Minutes minutes since midnight
func (t TimeString) Minutes() int {
	return t.minutes
}

// AddMinutes returns t+m. End of day (24:00) is allowed so that intervals
// ending at midnight stay representable.
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	if !t.valid {
		return TimeString{}, ErrInvalidTimeString
	}
	return NewTimeStringFromMinutes(t.minutes + m)
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

func (t TimeString) Equal(other TimeString) bool {
	return t.valid == other.valid && t.minutes == other.minutes
}

func (t TimeString) IsZero() bool {
	return !t.valid
}

// Validate checks that the value was set and is inside a day
func (t TimeString) Validate() error {
	if !t.valid || t.minutes < 0 || t.minutes > MinutesPerDay {
		return ErrInvalidTimeString
	}
	return nil
}

func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// On combines the time of day with the calendar date of d
func (t TimeString) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location()).Add(time.Duration(t.minutes) * time.Minute)
}

// Scan implements sql.Scanner. lib/pq returns TIME columns as time.Time.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	return t.String(), nil
}
