// internal/styling/parser/schema.go
package parser

import (
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const outfitSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title", "description", "items", "occasion", "season", "colors", "price_range", "style_tips", "image_description"],
  "properties": {
    "id":                {"type": ["string", "number"]},
    "title":             {"type": "string", "minLength": 1},
    "description":       {"type": "string"},
    "items":             {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "occasion":          {"type": "string", "minLength": 1},
    "season":            {"type": "string", "minLength": 1},
    "colors":            {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "price_range":       {"type": "string", "minLength": 1},
    "style_tips":        {"type": "array", "items": {"type": "string"}},
    "image_description": {"type": "string"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func outfitSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(outfitSchemaJSON))
	})
	return schema, schemaErr
}

type violation struct {
	Field   string
	Message string
}

func validateOutfit(obj map[string]interface{}) ([]violation, error) {
	s, err := outfitSchema()
	if err != nil {
		return nil, err
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	out := make([]violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		out = append(out, violation{Field: desc.Field(), Message: desc.String()})
	}
	return out, nil
}
