// internal/styling/locale/locale_test.go
package locale

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	commonhttp "stylist-workers/internal/common/http"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWeather struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingWeather) CurrentWeather(ctx context.Context, lat, lon float64) (*models.WeatherReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &models.WeatherReport{Temperature: 25 + float64(c.calls), Condition: "Clear", Source: SourceOpenMeteo}, nil
}

type fakeGeocoder struct {
	place *Place
	err   error
	calls int
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	f.calls++
	return f.place, f.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// ==========================
// Coordinates and geography
// ==========================

func TestCoordinateKey(t *testing.T) {
	assert.Equal(t, "19.08,72.88", CoordinateKey(19.076, 72.8777))
	assert.Equal(t, CoordinateKey(19.0761, 72.8779), CoordinateKey(19.0759, 72.8771))
	assert.Equal(t, "0.00,0.00", CoordinateKey(-0.001, 0.001))
}

func TestHaversine(t *testing.T) {
	d := Haversine(19.076, 72.8777, 18.5204, 73.8567)
	assert.InDelta(t, 120, d, 5)
	assert.InDelta(t, 0, Haversine(10, 10, 10, 10), 1e-9)
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		lat    float64
		lon    float64
		city   string
		region string
		source string
	}{
		{"inside city radius", 19.10, 72.90, "Mumbai", "West India", "city"},
		{"region box", 34.15, 77.58, "", "Himalayas", "region"},
		{"south india region", 11.0, 78.0, "", "South India", "region"},
		{"latitude band tropics", -15.0, -47.0, "", "Tropics", "band"},
		{"latitude band polar", -75.0, 0.0, "", "Polar zone", "band"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Locate(tt.lat, tt.lon)
			assert.Equal(t, tt.city, loc.City)
			assert.Equal(t, tt.region, loc.Region)
			assert.Equal(t, tt.source, loc.Source)
		})
	}
}

// ==========================
// Caches
// ==========================

func TestMemoryCache_IdentityWithinTTL(t *testing.T) {
	clk := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache[models.WeatherReport](10 * time.Minute).WithClock(clk.now)
	ctx := context.Background()

	report := &models.WeatherReport{Temperature: 30}
	cache.Set(ctx, "k", report)

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Same(t, report, got)

	clk.t = clk.t.Add(10 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_DistinctKeysDoNotOverwrite(t *testing.T) {
	cache := NewMemoryCache[models.WeatherReport](time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Set(ctx, CoordinateKey(float64(i), 0), &models.WeatherReport{Temperature: float64(i)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		got, ok := cache.Get(ctx, CoordinateKey(float64(i), 0))
		require.True(t, ok)
		assert.Equal(t, float64(i), got.Temperature)
	}
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache[models.Topography](rdb, "style:topo:", time.Hour, logger.NewTestLogger(t))
	ctx := context.Background()

	_, ok := cache.Get(ctx, "1.00,2.00")
	assert.False(t, ok)

	cache.Set(ctx, "1.00,2.00", &models.Topography{City: "Pune", LocalFashionTrends: []string{"denim"}})
	assert.Equal(t, time.Hour, mr.TTL("style:topo:1.00,2.00"))

	got, ok := cache.Get(ctx, "1.00,2.00")
	require.True(t, ok)
	assert.Equal(t, "Pune", got.City)

	mr.FastForward(time.Hour)
	_, ok = cache.Get(ctx, "1.00,2.00")
	assert.False(t, ok)
}

// ==========================
// Weather
// ==========================

func TestWeatherResolver_CachesWithinTTL(t *testing.T) {
	clk := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	provider := &countingWeather{}
	cache := NewMemoryCache[models.WeatherReport](10 * time.Minute).WithClock(clk.now)
	resolver := NewWeatherResolver(provider, cache, logger.NewTestLogger(t))
	resolver.now = clk.now
	ctx := context.Background()

	first := resolver.Resolve(ctx, 19.0761, 72.8777)
	second := resolver.Resolve(ctx, 19.0759, 72.8781)
	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.calls)

	clk.t = clk.t.Add(11 * time.Minute)
	third := resolver.Resolve(ctx, 19.0761, 72.8777)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, provider.calls)
}

func TestWeatherResolver_FallsBackToEstimate(t *testing.T) {
	provider := &countingWeather{err: errors.New("dial tcp: i/o timeout")}
	resolver := NewWeatherResolver(provider, NewMemoryCache[models.WeatherReport](time.Minute), logger.NewTestLogger(t))

	report := resolver.Resolve(context.Background(), 28.61, 77.21)
	require.NotNil(t, report)
	assert.True(t, report.Estimated)
	assert.Equal(t, SourceEstimated, report.Source)
	assert.Contains(t, report.Forecast, "(estimated)")
}

func TestMockWeather_Deterministic(t *testing.T) {
	day := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)

	a := MockWeather(12.9716, 77.5946, day)
	b := MockWeather(12.9714, 77.5949, later)
	assert.Equal(t, a, b)

	c := MockWeather(12.9716, 77.5946, day.AddDate(0, 0, 1))
	assert.NotEqual(t, a, c)

	assert.GreaterOrEqual(t, a.Humidity, 10)
	assert.LessOrEqual(t, a.Humidity, 100)
	assert.NotEmpty(t, a.Condition)
}

func TestOpenMeteoClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "19.0760", r.URL.Query().Get("latitude"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"current": {"temperature_2m": 29.6, "relative_humidity_2m": 71.4, "wind_speed_10m": 11.2, "weather_code": 61},
			"daily": {"temperature_2m_max": [31.0], "temperature_2m_min": [25.2]}
		}`))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(commonhttp.NewClient(time.Second), server.URL+"/")
	report, err := client.CurrentWeather(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)

	assert.Equal(t, 29.6, report.Temperature)
	assert.Equal(t, 71, report.Humidity)
	assert.Equal(t, "Rain", report.Condition)
	assert.Equal(t, "Rain today, high 31°C and low 25°C", report.Forecast)
	assert.False(t, report.Estimated)
}

func TestWeatherCondition(t *testing.T) {
	assert.Equal(t, "Clear", weatherCondition(0))
	assert.Equal(t, "Partly cloudy", weatherCondition(2))
	assert.Equal(t, "Fog", weatherCondition(45))
	assert.Equal(t, "Snow", weatherCondition(73))
	assert.Equal(t, "Thunderstorm", weatherCondition(95))
}

// ==========================
// Topography
// ==========================

func TestTopographyResolver_CityTableSkipsGeocoder(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("should not be called")}
	resolver := NewTopographyResolver(geo, NewMemoryCache[models.Topography](time.Hour), logger.NewTestLogger(t))

	topo := resolver.Resolve(context.Background(), 26.91, 75.79)
	assert.Equal(t, "Jaipur", topo.City)
	assert.Equal(t, "city-table", topo.Source)
	assert.Equal(t, 0, geo.calls)
}

func TestTopographyResolver_UsesGeocoderOutsideCities(t *testing.T) {
	geo := &fakeGeocoder{place: &Place{City: "Leh", Region: "Ladakh", Country: "India"}}
	resolver := NewTopographyResolver(geo, NewMemoryCache[models.Topography](time.Hour), logger.NewTestLogger(t))
	ctx := context.Background()

	topo := resolver.Resolve(ctx, 34.15, 77.58)
	assert.Equal(t, "Leh", topo.City)
	assert.Equal(t, "Ladakh", topo.Region)
	assert.Equal(t, "Mountains", topo.Terrain)
	assert.Equal(t, "geocoder", topo.Source)

	again := resolver.Resolve(ctx, 34.151, 77.579)
	assert.Same(t, topo, again)
	assert.Equal(t, 1, geo.calls)
}

func TestTopographyResolver_GeocoderFailure(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("429 too many requests")}
	resolver := NewTopographyResolver(geo, NewMemoryCache[models.Topography](time.Hour), logger.NewTestLogger(t))

	topo := resolver.Resolve(context.Background(), 11.0, 78.0)
	assert.Equal(t, "South India", topo.Region)
	assert.True(t, topo.Estimated)
	assert.Equal(t, "region-table", topo.Source)
}

func TestNominatimClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "stylist-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"address": {"town": "Manali", "state": "Himachal Pradesh", "country": "India"}}`))
	}))
	defer server.Close()

	client := NewNominatimClient(commonhttp.NewClient(time.Second).WithUserAgent("stylist-test"), server.URL)
	place, err := client.ReverseGeocode(context.Background(), 32.24, 77.19)
	require.NoError(t, err)
	assert.Equal(t, &Place{City: "Manali", Region: "Himachal Pradesh", Country: "India"}, place)
}
