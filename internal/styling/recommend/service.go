// internal/styling/recommend/service.go
package recommend

import (
	"context"
	"errors"
	"time"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/category"
	"stylist-workers/internal/styling/fallback"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/links"
	"stylist-workers/internal/styling/parser"
	"stylist-workers/internal/styling/profile"
	"stylist-workers/internal/styling/prompt"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	FallbackNotice = "Our stylist is busy, here are curated alternatives"

	photoHint = "a reference photo is attached; build on the style, fit and colours visible in it"
)

type AI interface {
	Call(ctx context.Context, prompt string, image *gateway.Image) (gateway.Result, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type WeatherResolver interface {
	Resolve(ctx context.Context, lat, lon float64) *models.WeatherReport
}

type TopographyResolver interface {
	Resolve(ctx context.Context, lat, lon float64) *models.Topography
}

type Options struct {
	OutfitCount  int
	GenderPolicy category.GenderPolicy
}

type Request struct {
	UserID string
	// Profile, when set, is used instead of loading UserID from the store.
	Profile      *models.UserProfile
	CategorySlug string
	Location     *models.Coordinates
	Image        *gateway.Image
	Count        int
}

type Response struct {
	Outfits    []models.OutfitSuggestion `json:"outfits"`
	Source     string                    `json:"source"`
	Notice     string                    `json:"notice,omitempty"`
	Warnings   []string                  `json:"warnings,omitempty"`
	Context    models.CategoryContext    `json:"context"`
	Gender     string                    `json:"gender"`
	Profile    models.NormalizedProfile  `json:"profile"`
	Weather    *models.WeatherReport     `json:"weather,omitempty"`
	Topography *models.Topography        `json:"topography,omitempty"`
	Attempts   int                       `json:"attempts"`
}

type Service struct {
	ai         AI
	profiles   ProfileReader
	weather    WeatherResolver
	topography TopographyResolver
	opts       Options
	logger     logger.Logger
}

// NewService wires the outfit pipeline. weather and topography may be nil,
// in which case location context is skipped.
func NewService(ai AI, profiles ProfileReader, weather WeatherResolver, topography TopographyResolver, opts Options, log logger.Logger) *Service {
	if opts.OutfitCount <= 0 {
		opts.OutfitCount = prompt.DefaultOutfitCount
	}
	if opts.GenderPolicy == "" {
		opts.GenderPolicy = category.ProfileFirst
	}
	return &Service{
		ai:         ai,
		profiles:   profiles,
		weather:    weather,
		topography: topography,
		opts:       opts,
		logger:     log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

// Suggest runs the outfit pipeline. Recommendation failures degrade to the
// rule-based catalogue; the only error returned is a cancelled context.
func (s *Service) Suggest(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp := &Response{}

	count := req.Count
	if count <= 0 {
		count = s.opts.OutfitCount
	}

	p, err := s.loadProfile(ctx, req, resp)
	if err != nil {
		return nil, err
	}
	resp.Profile = profile.Normalize(p, s.logger)
	resp.Gender = category.ResolveGender(s.opts.GenderPolicy, resp.Profile.Gender, req.CategorySlug)
	resp.Context = category.Resolve(req.CategorySlug)

	if req.Location != nil {
		if s.weather != nil {
			resp.Weather = s.weather.Resolve(ctx, req.Location.Latitude, req.Location.Longitude)
		}
		if s.topography != nil {
			resp.Topography = s.topography.Resolve(ctx, req.Location.Latitude, req.Location.Longitude)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := prompt.Input{
		Profile:    resp.Profile,
		Gender:     resp.Gender,
		Category:   resp.Context,
		Weather:    resp.Weather,
		Topography: resp.Topography,
		Count:      count,
	}
	if req.Image != nil {
		in.ImageHint = photoHint
	}

	log := s.logger.WithFields(map[string]interface{}{
		"userId":   req.UserID,
		"category": req.CategorySlug,
		"gender":   resp.Gender,
	})

	result, err := s.ai.Call(ctx, prompt.BuildOutfitPrompt(in), req.Image)
	resp.Attempts = result.Attempts
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("outfit generation failed, using fallback", map[string]interface{}{"error": err})
		resp.Warnings = append(resp.Warnings, "generation: "+err.Error())
		s.useFallback(resp, count, fallbackReason(err))
		return s.finish(resp, log, start), nil
	}

	parsed := parser.ParseOutfits(result.Text, parser.Options{
		Gender:   resp.Gender,
		Occasion: resp.Context.StyleArchetype,
		Logger:   log,
	})
	for _, w := range parsed.Warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	if len(parsed.Outfits) == 0 {
		s.useFallback(resp, count, "empty_parse")
		return s.finish(resp, log, start), nil
	}

	outfits := parsed.Outfits
	if len(outfits) > count {
		outfits = outfits[:count]
	}
	resp.Outfits = outfits
	resp.Source = SourceAI
	return s.finish(resp, log, start), nil
}

func (s *Service) loadProfile(ctx context.Context, req Request, resp *Response) (models.UserProfile, error) {
	if req.Profile != nil {
		return *req.Profile, nil
	}
	if req.UserID == "" || s.profiles == nil {
		resp.Warnings = append(resp.Warnings, "profile: none supplied, using defaults")
		return models.UserProfile{}, nil
	}

	p, err := s.profiles.GetProfile(ctx, req.UserID)
	switch {
	case err != nil && ctx.Err() != nil:
		return models.UserProfile{}, ctx.Err()
	case err != nil:
		s.logger.Warn("profile load failed, using defaults", map[string]interface{}{
			"userId": req.UserID,
			"error":  err,
		})
		resp.Warnings = append(resp.Warnings, "profile: "+err.Error())
		return models.UserProfile{UserID: req.UserID}, nil
	case p == nil:
		resp.Warnings = append(resp.Warnings, "profile: not found, using defaults")
		return models.UserProfile{UserID: req.UserID}, nil
	default:
		return *p, nil
	}
}

func (s *Service) useFallback(resp *Response, count int, reason string) {
	metrics.OutfitFallbacks.WithLabelValues(reason).Inc()
	resp.Outfits = fallback.Synthesize(fallback.Request{
		Profile:  resp.Profile,
		Gender:   resp.Gender,
		Category: resp.Context,
		Weather:  resp.Weather,
		Count:    count,
	})
	resp.Source = SourceFallback
	resp.Notice = FallbackNotice
}

func (s *Service) finish(resp *Response, log logger.Logger, start time.Time) *Response {
	resp.Outfits = links.Enrich(resp.Outfits, resp.Gender)
	log.Info("outfit suggestions ready", map[string]interface{}{
		"source":   resp.Source,
		"outfits":  len(resp.Outfits),
		"warnings": len(resp.Warnings),
		"attempts": resp.Attempts,
		"duration": time.Since(start).String(),
	})
	return resp
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, gateway.ErrProviderBusy):
		return "busy"
	case errors.Is(err, gateway.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
