// internal/common/validation/validation_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Height *float64 `json:"height,omitempty" validate:"omitempty,gte=50,lte=272"`
	Gender *string  `json:"gender,omitempty" validate:"omitempty,gender"`
}

type sample struct {
	UserID string `json:"userId" validate:"required,max=8"`
	Update nested `json:"update"`
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func TestStruct_Valid(t *testing.T) {
	result := Struct(sample{UserID: "u-1", Update: nested{Height: f64(170), Gender: str("Female")}})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestStruct_Violations(t *testing.T) {
	tests := []struct {
		name  string
		input sample
		field string
		code  string
	}{
		{name: "missing user", input: sample{}, field: "userId", code: "REQUIRED_FIELD_MISSING"},
		{name: "user too long", input: sample{UserID: "abcdefghij"}, field: "userId", code: "MAXIMUM_VIOLATION"},
		{name: "height too small", input: sample{UserID: "u", Update: nested{Height: f64(10)}}, field: "update.height", code: "MINIMUM_VIOLATION"},
		{name: "height too large", input: sample{UserID: "u", Update: nested{Height: f64(300)}}, field: "update.height", code: "MAXIMUM_VIOLATION"},
		{name: "unknown gender", input: sample{UserID: "u", Update: nested{Gender: str("robot")}}, field: "update.gender", code: "INVALID_ENUM_VALUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Struct(tt.input)

			assert.False(t, result.Valid)
			assert.True(t, result.HasErrors(tt.field))
			errs := result.GetErrorsForField(tt.field)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestValidationResult_GetErrorMessages(t *testing.T) {
	result := Struct(sample{Update: nested{Height: f64(10)}})

	messages := result.GetErrorMessages()
	assert.Contains(t, messages, "userId: required field missing")
	assert.Contains(t, messages, "update.height: value must be >= 50")
	assert.Len(t, result.GetErrorsForField("update"), 1)
}
