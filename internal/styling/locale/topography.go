// internal/styling/locale/topography.go
package locale

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	commonhttp "stylist-workers/internal/common/http"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/models"
)

// Place is a reverse-geocoded coordinate.
type Place struct {
	City    string
	Region  string
	Country string
}

type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error)
}

// NominatimClient queries the OpenStreetMap Nominatim reverse endpoint.
type NominatimClient struct {
	http    *commonhttp.Client
	baseURL string
}

func NewNominatimClient(client *commonhttp.Client, baseURL string) *NominatimClient {
	return &NominatimClient{http: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type nominatimResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		County       string `json:"county"`
		StateDistict string `json:"state_district"`
		State        string `json:"state"`
		Country      string `json:"country"`
	} `json:"address"`
}

func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 5, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 5, 64))
	q.Set("zoom", "10")

	var resp nominatimResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/reverse?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("nominatim: %w", err)
	}

	a := resp.Address
	city := firstNonEmpty(a.City, a.Town, a.Village, a.County, a.StateDistict)
	if city == "" && a.State == "" {
		return nil, fmt.Errorf("nominatim: no address for %.4f,%.4f", lat, lon)
	}
	return &Place{City: city, Region: a.State, Country: a.Country}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// TopographyResolver answers from the city table when possible and otherwise
// combines the reverse geocoder with the region tables.
type TopographyResolver struct {
	geocoder ReverseGeocoder
	cache    Cache[models.Topography]
	logger   logger.Logger
}

func NewTopographyResolver(geocoder ReverseGeocoder, cache Cache[models.Topography], log logger.Logger) *TopographyResolver {
	return &TopographyResolver{
		geocoder: geocoder,
		cache:    cache,
		logger:   log.WithFields(map[string]interface{}{"component": "topography"}),
	}
}

func (r *TopographyResolver) Resolve(ctx context.Context, lat, lon float64) *models.Topography {
	key := CoordinateKey(lat, lon)
	if cached, ok := r.cache.Get(ctx, key); ok {
		metrics.LocaleCacheLookups.WithLabelValues("topography", "hit").Inc()
		return cached
	}
	metrics.LocaleCacheLookups.WithLabelValues("topography", "miss").Inc()

	loc := Locate(lat, lon)
	topo := &models.Topography{
		City:               loc.City,
		Region:             loc.Region,
		Climate:            loc.Climate,
		Terrain:            loc.Terrain,
		CulturalStyle:      loc.CulturalStyle,
		LocalFashionTrends: append([]string(nil), loc.Trends...),
		Source:             "city-table",
	}

	if loc.Source != "city" {
		topo.Source = loc.Source + "-table"
		if place, err := r.geocoder.ReverseGeocode(ctx, lat, lon); err != nil {
			r.logger.Warn("reverse geocoding failed, using regional profile", map[string]interface{}{
				"key":   key,
				"error": err,
			})
			topo.Estimated = true
		} else {
			topo.City = place.City
			if place.Region != "" {
				topo.Region = place.Region
			}
			topo.Source = "geocoder"
		}
	}

	r.cache.Set(ctx, key, topo)
	return topo
}
