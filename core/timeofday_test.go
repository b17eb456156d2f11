package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr error
	}{
		{in: "07:30", want: NewTimeOfDay(7, 30, 0)},
		{in: " 07:45:01 ", want: NewTimeOfDay(7, 45, 1)},
		{in: "00:00", want: 0},
		{in: "23:59:59", want: NewTimeOfDay(23, 59, 59)},
		{in: "", wantErr: ErrInvalidTimeOfDay},
		{in: "7h30", wantErr: ErrInvalidTimeOfDay},
		{in: "24:00", wantErr: ErrInvalidTimeOfDay},
		{in: "07:60", wantErr: ErrInvalidTimeOfDay},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if err != tt.wantErr {
				t.Fatalf("ParseTimeOfDay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDay_format(t *testing.T) {
	tod := NewTimeOfDay(7, 5, 9)
	assert.Equal(t, "07:05:09", tod.String())
	assert.Equal(t, "07:05", tod.HourMinute())
	assert.Equal(t, "07:20:09", tod.AddMinutes(15).String())
	assert.Equal(t, "00:10:00", NewTimeOfDay(23, 55, 0).AddMinutes(15).String()) // wraps around midnight

	loc := time.FixedZone("WIB", 7*3600)
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.March, 4, 7, 5, 9, 0, loc), tod.On(date))
	assert.Equal(t, tod, TimeOfDayOf(tod.On(date)))
}

func TestTimeOfDay_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		At TimeOfDay `json:"at"`
	}{NewTimeOfDay(14, 0, 30)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at": "14:00:30"}`, string(data))

	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"07:30"`), &tod))
	assert.Equal(t, NewTimeOfDay(7, 30, 0), tod)
	assert.Error(t, json.Unmarshal([]byte(`"noon"`), &tod))
	assert.Error(t, json.Unmarshal([]byte(`730`), &tod))
}

func TestTimeOfDay_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    TimeOfDay
		wantErr bool
	}{
		{name: "bytes", src: []byte("07:45:00"), want: NewTimeOfDay(7, 45, 0)},
		{name: "fractional seconds", src: "07:45:01.999999", want: NewTimeOfDay(7, 45, 1)},
		{name: "time", src: time.Date(0, 1, 1, 13, 2, 3, 0, time.UTC), want: NewTimeOfDay(13, 2, 3)},
		{name: "nil", src: nil, want: 0},
		{name: "garbage", src: "lol", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tod := NewTimeOfDay(1, 1, 1)
			err := tod.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tod != tt.want {
				t.Errorf("Scan() = %v, want %v", tod, tt.want)
			}
		})
	}

	val, err := NewTimeOfDay(7, 30, 0).Value()
	require.NoError(t, err)
	assert.Equal(t, "07:30:00", val)
}
