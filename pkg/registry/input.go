// pkg/registry/input.go
package registry

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// InputValidator checks job variables against an activity's input schema.
type InputValidator struct {
	taskType string
	schema   *gojsonschema.Schema
}

// InputValidator compiles the input schema. An activity without one accepts any object.
func (a *Activity) InputValidator() (*InputValidator, error) {
	v := &InputValidator{taskType: a.TaskType}
	if len(a.InputSchema) == 0 {
		return v, nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
	if err != nil {
		return nil, fmt.Errorf("activity %s has an invalid input schema: %w", a.ID, err)
	}
	v.schema = schema
	return v, nil
}

// Validate returns an error listing every schema violation in variables.
func (v *InputValidator) Validate(variables string) error {
	if v.schema == nil {
		return nil
	}
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return fmt.Errorf("%s input is not valid JSON: %w", v.taskType, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s input rejected: %s", v.taskType, strings.Join(msgs, "; "))
}
