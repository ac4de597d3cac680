// internal/common/validation/validation.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			g := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			return g == "male" || g == "female"
		})
	})
	return validate
}

// Struct validates v against its `validate` tags. Field names follow the json
// tags, dotted for nested structs.
func Struct(v interface{}) *ValidationResult {
	err := instance().Struct(v)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationResult{Errors: []ValidationError{{Message: err.Error(), Code: "INVALID_VALUE"}}}
	}

	result := &ValidationResult{}
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
			Code:    code(fe.Tag()),
		})
	}
	return result
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func code(tag string) string {
	switch tag {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "min", "gte", "gt":
		return "MINIMUM_VIOLATION"
	case "max", "lte", "lt":
		return "MAXIMUM_VIOLATION"
	case "oneof", "gender":
		return "INVALID_ENUM_VALUE"
	default:
		return "INVALID_VALUE"
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field missing"
	case "gte", "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("value must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("value must be >= %s", fe.Param())
	case "lte", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("value must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("value must be <= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of [%s]", fe.Param())
	case "gender":
		return "value must be male or female"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
