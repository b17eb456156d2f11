package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type form struct {
		Class string `json:"class" validate:"required,alphanum_"`
		NISN  string `json:"nisn" validate:"required,digits"`
	}

	tests := []struct {
		name    string
		form    form
		wantErr map[string]string
	}{
		{name: "valid", form: form{Class: "7A", NISN: "0012345"}},
		{name: "spaces and underscores", form: form{Class: "X IPA_1", NISN: "1"}},
		{
			name:    "missing",
			form:    form{},
			wantErr: map[string]string{"class": "this field is required", "nisn": "this field is required"},
		},
		{
			name: "symbols",
			form: form{Class: "7-A", NISN: "12a"},
			wantErr: map[string]string{
				"class": "class may only contain letters, digits, spaces and underscores",
				"nisn":  "nisn must only contain digits",
			},
		},
		{
			name:    "wildcards",
			form:    form{Class: "7%", NISN: "1"},
			wantErr: map[string]string{"class": "class may only contain letters, digits, spaces and underscores"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			assert.Equal(t, tt.wantErr, TranslateValidationErrors(vErrs, translator))
		})
	}
}
