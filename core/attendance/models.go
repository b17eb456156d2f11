package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/student"
)

// Direction tells whether a scan enters or leaves the school.
type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

func (d Direction) IsValid() bool { return d == DirectionEntry || d == DirectionExit }

// ScanStatus is the status stored on a record. Only StatusPresent and StatusLate exist:
// absence is never recorded, see DayStatus.
type ScanStatus struct {
	name string
}

var (
	StatusPresent = ScanStatus{"present"}
	StatusLate    = ScanStatus{"late"}

	ErrInvalidStatus = errors.New("invalid scan status")
)

func ParseScanStatus(s string) (ScanStatus, error) {
	switch s {
	case StatusPresent.name:
		return StatusPresent, nil
	case StatusLate.name:
		return StatusLate, nil
	}
	return ScanStatus{}, errors.Wrap(ErrInvalidStatus, s)
}

func (s ScanStatus) String() string { return s.name }
func (s ScanStatus) IsZero() bool   { return s.name == "" }

func (s ScanStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.name) }

func (s *ScanStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	status, err := ParseScanStatus(name)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s *ScanStatus) Scan(src interface{}) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return errors.Errorf("cannot scan %T into ScanStatus", src)
	}
	status, err := ParseScanStatus(name)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s ScanStatus) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, ErrInvalidStatus
	}
	return s.name, nil
}

// DayStatus is the status of a student over a whole day.
type DayStatus string

const (
	DayPresent DayStatus = "present"
	DayLate    DayStatus = "late"
	DayAbsent  DayStatus = "absent"
)

// Record is an immutable attendance scan. There is at most one per student, date and direction.
type Record struct {
	ID        int64          `json:"id"`
	StudentID int64          `json:"student_id"`
	Date      time.Time      `json:"date"`
	Direction Direction      `json:"direction"`
	ScanTime  core.TimeOfDay `json:"scan_time"`
	Status    ScanStatus     `json:"status"`
	Notes     string         `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(r), r.Date.Format(core.DateLayout)})
}

// NewRecord contains information needed to record a scan.
type NewRecord struct {
	StudentID int64
	Date      time.Time
	Direction Direction
	ScanTime  core.TimeOfDay
	Status    ScanStatus
	Notes     string
}

type QueryFilter struct {
	StudentIDs []int64
	DateFrom   time.Time // inclusive
	DateTo     time.Time // inclusive
	Direction  Direction
	Limit      int
}

// ScanRequest is a decoded barcode read by a kiosk.
type ScanRequest struct {
	Barcode   string    `json:"barcode" validate:"required,max=64"`
	Direction Direction `json:"direction" validate:"required,oneof=entry exit"`
}

func (sr *ScanRequest) Validate(validate *validator.Validate) error {
	sr.Barcode = core.CleanString(sr.Barcode)
	sr.Direction = Direction(core.CleanString(string(sr.Direction), true /* lower */))
	return validate.Struct(sr)
}

type OutcomeKind string

const (
	OutcomeValid           OutcomeKind = "valid"
	OutcomeStudentNotFound OutcomeKind = "student_not_found"
	OutcomeDuplicate       OutcomeKind = "duplicate"
)

// Outcome is the verdict of the scan validator.
type Outcome struct {
	Kind         OutcomeKind
	Barcode      string          // set for OutcomeStudentNotFound
	Student      student.Student // set for OutcomeValid and OutcomeDuplicate
	ExistingTime core.TimeOfDay  // set for OutcomeDuplicate
}

// Scan result reasons and messages
const (
	ReasonNotFound  = "not_found"
	ReasonDuplicate = "duplicate"

	MsgNotFound = "Student not found or inactive"
	MsgSuccess  = "Scan successful"
)

func duplicateMessage(dir Direction) string {
	return "Already scanned " + string(dir) + " today"
}

// ScanResult is returned to the kiosk for every scan.
type ScanResult struct {
	OK           bool             `json:"ok"`
	Reason       string           `json:"reason,omitempty"`
	Message      string           `json:"message"`
	Barcode      string           `json:"barcode,omitempty"`
	Student      *student.Summary `json:"student,omitempty"`
	ExistingTime string           `json:"existing_time,omitempty"`
	Status       *ScanStatus      `json:"status,omitempty"`
	Direction    Direction        `json:"direction,omitempty"`
	Time         string           `json:"time,omitempty"`
}

func notFoundResult(barcode string) ScanResult {
	return ScanResult{Reason: ReasonNotFound, Message: MsgNotFound, Barcode: barcode}
}

func duplicateResult(std student.Student, dir Direction, existing core.TimeOfDay) ScanResult {
	summary := std.Summary()
	return ScanResult{
		Reason:       ReasonDuplicate,
		Message:      duplicateMessage(dir),
		Student:      &summary,
		ExistingTime: existing.HourMinute(),
		Direction:    dir,
	}
}

func successResult(std student.Student, rec Record) ScanResult {
	summary := std.Summary()
	status := rec.Status
	return ScanResult{
		OK:        true,
		Message:   MsgSuccess,
		Student:   &summary,
		Status:    &status,
		Direction: rec.Direction,
		Time:      rec.ScanTime.HourMinute(),
	}
}

// DailyStats counts distinct students by their status of the day.
type DailyStats struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Present int    `json:"present"`
}

// Activity is a record along with the student who scanned.
type Activity struct {
	ID         int64      `json:"id"`
	StudentID  int64      `json:"student_id"`
	Name       string     `json:"student"`
	Class      string     `json:"class"`
	Status     ScanStatus `json:"status"`
	Direction  Direction  `json:"direction"`
	Time       string     `json:"time"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedAgo string     `json:"created_ago,omitempty"`
}

type RollCallEntry struct {
	Student   student.Student `json:"student"`
	Status    DayStatus       `json:"status"`
	EntryTime string          `json:"entry_time,omitempty"`
	ExitTime  string          `json:"exit_time,omitempty"`
}

type Dashboard struct {
	Stats  DailyStats   `json:"stats"`
	Trend  []TrendPoint `json:"trend"`
	Recent []Activity   `json:"recent"`
}

// Report is the template data of the daily report email.
type Report struct {
	AppName    string
	SchoolName string
	Date       string
	Stats      DailyStats
	Late       []Activity
}
