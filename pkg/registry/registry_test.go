// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "suggest-outfits", DisplayName: "Suggest Outfits", Category: "outfits", TaskType: "suggest-outfits", Timeout: "2m"},
			{ID: "match-advice", DisplayName: "Match Advice", Category: "advice", TaskType: "match-advice"},
		},
	}
}

func TestActivityRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")

	require.NoError(t, validRegistry().Save(path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 2)

	activity, ok := reg.Find("suggest-outfits")
	require.True(t, ok)
	assert.Equal(t, 2*time.Minute, activity.TimeoutOr(time.Second))

	_, ok = reg.Find("unknown")
	assert.False(t, ok)
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(r *ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "duplicate id", mutate: func(r *ActivityRegistry) { r.Activities[1].ID = "suggest-outfits" }, wantErr: "duplicate activity ID"},
		{name: "duplicate task type", mutate: func(r *ActivityRegistry) { r.Activities[1].TaskType = "suggest-outfits" }, wantErr: "duplicate task type"},
		{name: "missing category", mutate: func(r *ActivityRegistry) { r.Activities[0].Category = "" }, wantErr: "Category"},
		{name: "unknown status", mutate: func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "shipped" }, wantErr: "unknown implementation status"},
		{name: "bad timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, wantErr: "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistry()
			tt.mutate(reg)

			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestActivity_TimeoutOr(t *testing.T) {
	assert.Equal(t, time.Second, (&Activity{}).TimeoutOr(time.Second))
	assert.Equal(t, time.Second, (&Activity{Timeout: "-5s"}).TimeoutOr(time.Second))
	assert.Equal(t, 90*time.Second, (&Activity{Timeout: "90s"}).TimeoutOr(time.Second))
}

func TestLoadRegistry_ShippedCatalogue(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"suggest-outfits",
		"analyze-twinning",
		"match-advice",
		"resolve-location-context",
		"update-style-profile",
		"refresh-style-feed",
	} {
		_, ok := reg.Find(taskType)
		assert.True(t, ok, taskType)
	}
}

// ==========================
// Input schemas
// ==========================

func TestInputValidator(t *testing.T) {
	activity := Activity{
		ID:       "resolve-location-context",
		TaskType: "resolve-location-context",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"latitude", "longitude"},
			"properties": map[string]interface{}{
				"latitude":  map[string]interface{}{"type": "number", "minimum": -90, "maximum": 90},
				"longitude": map[string]interface{}{"type": "number", "minimum": -180, "maximum": 180},
			},
		},
	}
	v, err := activity.InputValidator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		variables string
		wantErr   string
	}{
		{name: "valid", variables: `{"latitude":19.07,"longitude":72.87,"other":"process variable"}`},
		{name: "missing longitude", variables: `{"latitude":19.07}`, wantErr: "longitude"},
		{name: "out of range", variables: `{"latitude":120,"longitude":0}`, wantErr: "latitude"},
		{name: "not json", variables: `{`, wantErr: "not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.variables)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestInputValidator_NoSchemaAcceptsAnything(t *testing.T) {
	v, err := (&Activity{TaskType: "free"}).InputValidator()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(`{"anything":true}`))
}

func TestInputValidator_ShippedSchemasCompile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)

	for i := range reg.Activities {
		_, err := reg.Activities[i].InputValidator()
		assert.NoError(t, err, reg.Activities[i].TaskType)
	}

	suggest, ok := reg.Find("suggest-outfits")
	require.True(t, ok)
	v, err := suggest.InputValidator()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(`{"categorySlug":"party","location":null}`))
	assert.Error(t, v.Validate(`{"categorySlug":"party","count":50}`))
}
