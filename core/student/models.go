package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduscan/core"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	BarcodePrefix = "EDU"
	barcodeDigits = 10
)

// BarcodeFor derives the card barcode of a student: "EDU" followed by the NISN
// left-padded with zeros to 10 digits. Longer NISNs are kept whole.
func BarcodeFor(nisn string) string {
	return BarcodePrefix + core.LeftPad(nisn, barcodeDigits, '0')
}

type Student struct {
	ID              int64     `json:"id"`
	NISN            string    `json:"nisn"`
	Name            string    `json:"name"`
	Class           string    `json:"class"`
	Gender          string    `json:"gender"`
	GuardianContact string    `json:"guardian_contact"`
	Barcode         string    `json:"barcode"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Summary is the part of a Student shown on scan results.
type Summary struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	NISN  string `json:"nisn"`
}

func (s Student) Summary() Summary {
	return Summary{Name: s.Name, Class: s.Class, NISN: s.NISN}
}

// NewStudent contains information needed to create a new Student.
// Barcode is derived from the NISN when left empty.
type NewStudent struct {
	NISN            string `json:"nisn" validate:"required,max=20,digits"`
	Name            string `json:"name" validate:"required,max=255"`
	Class           string `json:"class" validate:"required,max=255,alphanum_"`
	Gender          string `json:"gender" validate:"required,oneof=Male Female"`
	GuardianContact string `json:"guardian_contact" validate:"omitempty,max=20"`
	Barcode         string `json:"barcode" validate:"omitempty,max=64,alphanum"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.NISN = core.CleanString(ns.NISN)
	ns.Name = core.CleanString(ns.Name)
	ns.Class = core.CleanString(ns.Class)
	ns.Gender = core.CleanString(ns.Gender)
	ns.GuardianContact = core.CleanString(ns.GuardianContact)
	ns.Barcode = core.CleanString(ns.Barcode)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// The barcode is immutable. Empty fields keep their current value.
type UpdateStudent struct {
	NISN            string  `json:"nisn" validate:"required,max=20,digits"`
	Name            string  `json:"name" validate:"required,max=255"`
	Class           string  `json:"class" validate:"required,max=255,alphanum_"`
	Gender          string  `json:"gender" validate:"required,oneof=Male Female"`
	GuardianContact *string `json:"guardian_contact" validate:"omitempty,max=20"`
	IsActive        *bool   `json:"is_active"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	us.NISN = orDefault(us.NISN, orig.NISN)
	us.Name = orDefault(us.Name, orig.Name)
	us.Class = orDefault(us.Class, orig.Class)
	us.Gender = orDefault(us.Gender, orig.Gender)
	if us.GuardianContact != nil {
		contact := core.CleanString(*us.GuardianContact)
		us.GuardianContact = &contact
	} else {
		contact := orig.GuardianContact
		us.GuardianContact = &contact
	}
	if us.IsActive == nil {
		active := orig.IsActive
		us.IsActive = &active
	}
	return validate.Struct(us)
}

func orDefault(val, def string) string {
	if v := core.CleanString(val); v != "" {
		return v
	}
	return def
}

type QueryFilter struct {
	Class    string `query:"class"`
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Class = core.CleanString(qf.Class)
	qf.Search = core.CleanString(qf.Search)
}

// Roster is a page of students along with every known class label.
type Roster struct {
	Students []Student     `json:"students"`
	Page     core.PageInfo `json:"page"`
	Classes  []string      `json:"classes"`
}
