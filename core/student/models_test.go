package student

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduscan/core"
)

func newValidate() *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return validate
}

func TestBarcodeFor(t *testing.T) {
	tests := []struct {
		nisn string
		want string
	}{
		{nisn: "12345", want: "EDU0000012345"},
		{nisn: "0012345678", want: "EDU0012345678"},
		{nisn: "9", want: "EDU0000000009"},
		{nisn: "123456789012", want: "EDU123456789012"},
	}
	for _, tt := range tests {
		t.Run(tt.nisn, func(t *testing.T) {
			assert.Equal(t, tt.want, BarcodeFor(tt.nisn))
		})
	}
}

func TestUpdateStudent_defaults(t *testing.T) {
	orig := Student{NISN: "1", Name: "Ayu", Class: "7A", Gender: GenderFemale, GuardianContact: "0812", IsActive: true}
	us := UpdateStudent{Name: "  Ayu Lestari "}
	assert.NoError(t, us.Validate(orig, newValidate()))

	assert.Equal(t, "1", us.NISN)
	assert.Equal(t, "Ayu Lestari", us.Name)
	assert.Equal(t, "7A", us.Class)
	assert.Equal(t, GenderFemale, us.Gender)
	assert.Equal(t, "0812", *us.GuardianContact)
	assert.True(t, *us.IsActive)
}
