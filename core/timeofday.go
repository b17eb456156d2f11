package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	timeOfDayLayout = "15:04:05"
	hourMinLayout   = "15:04"
	secondsPerDay   = 24 * 60 * 60
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM or HH:MM:SS")

// TimeOfDay is a wall-clock time without date, stored as seconds since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, min, sec int) TimeOfDay {
	return TimeOfDay(hour*3600 + min*60 + sec)
}

// TimeOfDayOf returns the wall-clock time of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = CleanString(s)
	for _, layout := range []string{timeOfDayLayout, hourMinLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, ErrInvalidTimeOfDay
}

func (t TimeOfDay) clock() (h, m, s int) {
	v := int(t) % secondsPerDay
	if v < 0 {
		v += secondsPerDay
	}
	return v / 3600, (v % 3600) / 60, v % 60
}

func (t TimeOfDay) String() string {
	h, m, s := t.clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// HourMinute formats t as "HH:MM".
func (t TimeOfDay) HourMinute() string {
	h, m, _ := t.clock()
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (t TimeOfDay) AddMinutes(min int) TimeOfDay {
	return t + TimeOfDay(min*60)
}

// On returns t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	h, m, s := t.clock()
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, s, 0, date.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case nil:
		*t = 0
		return nil
	}
	return errors.Errorf("cannot scan %T into TimeOfDay", src)
}

func (t *TimeOfDay) scanString(s string) error {
	if len(s) > len(timeOfDayLayout) {
		s = s[:len(timeOfDayLayout)] // drop fractional seconds
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}
