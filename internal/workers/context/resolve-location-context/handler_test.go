// internal/workers/context/resolve-location-context/handler_test.go
package resolvelocationcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/locale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type downWeather struct{}

func (downWeather) CurrentWeather(ctx context.Context, lat, lon float64) (*models.WeatherReport, error) {
	return nil, errors.New("connection refused")
}

type downGeocoder struct{}

func (downGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*locale.Place, error) {
	return nil, errors.New("connection refused")
}

type slowWeather struct{}

func (slowWeather) Resolve(ctx context.Context, lat, lon float64) *models.WeatherReport {
	<-ctx.Done()
	return nil
}

type countingTopography struct{ calls int }

func (c *countingTopography) Resolve(ctx context.Context, lat, lon float64) *models.Topography {
	c.calls++
	return &models.Topography{City: "Testville"}
}

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func createTestHandler(t *testing.T) *Handler {
	log := logger.NewTestLogger(t)
	weather := locale.NewWeatherResolver(downWeather{}, locale.NewMemoryCache[models.WeatherReport](time.Minute), log)
	topography := locale.NewTopographyResolver(downGeocoder{}, locale.NewMemoryCache[models.Topography](time.Minute), log)
	return NewHandler(createTestConfig(), weather, topography, log)
}

func coord(v float64) *float64 { return &v }

func flag(v bool) *bool { return &v }

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_KnownCity(t *testing.T) {
	h := createTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{Latitude: coord(19.08), Longitude: coord(72.88)})

	require.NoError(t, err)
	require.NotNil(t, output.Context.Weather)
	require.NotNil(t, output.Context.Topography)
	assert.True(t, output.Context.Weather.Estimated)
	assert.Equal(t, locale.SourceEstimated, output.Context.Weather.Source)
	assert.Equal(t, "Mumbai", output.Context.Topography.City)
	assert.Equal(t, 19.08, output.Context.Coordinates.Latitude)
}

func TestHandler_Execute_EstimatedWeatherIsStable(t *testing.T) {
	h := createTestHandler(t)
	input := &Input{Latitude: coord(28.61), Longitude: coord(77.21), IncludeTopography: flag(false)}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Context.Weather.Temperature, second.Context.Weather.Temperature)
	assert.Equal(t, first.Context.Weather.Condition, second.Context.Weather.Condition)
	assert.Nil(t, first.Context.Topography)
}

func TestHandler_Execute_IncludeFlags(t *testing.T) {
	topo := &countingTopography{}
	h := NewHandler(createTestConfig(), nil, topo, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		Latitude:       coord(0),
		Longitude:      coord(0),
		IncludeWeather: flag(false),
	})

	require.NoError(t, err)
	assert.Nil(t, output.Context.Weather)
	assert.Equal(t, "Testville", output.Context.Topography.City)
	assert.Equal(t, 1, topo.calls)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "missing latitude", input: Input{Longitude: coord(10)}},
		{name: "missing longitude", input: Input{Latitude: coord(10)}},
		{name: "latitude out of range", input: Input{Latitude: coord(91), Longitude: coord(0)}},
		{name: "longitude out of range", input: Input{Latitude: coord(0), Longitude: coord(-181)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)

			_, err := h.Execute(context.Background(), &tt.input)

			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, apperrors.ErrCodeInvalidStyleInput, toStandardError(err).Code)
		})
	}
}

func TestHandler_Execute_Deadline(t *testing.T) {
	h := NewHandler(createTestConfig(), slowWeather{}, nil, logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Latitude: coord(12.97), Longitude: coord(77.59)})

	require.ErrorIs(t, err, ErrContextFailed)
	assert.Equal(t, apperrors.ErrCodeLocationContextFailed, toStandardError(err).Code)
}
