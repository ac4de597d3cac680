// internal/workers/context/resolve-location-context/handler.go
package resolvelocationcontext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "resolve-location-context"
)

var (
	ErrInvalidInput  = errors.New("INVALID_STYLE_INPUT")
	ErrContextFailed = errors.New("LOCATION_CONTEXT_FAILED")
)

type WeatherResolver interface {
	Resolve(ctx context.Context, lat, lon float64) *models.WeatherReport
}

type TopographyResolver interface {
	Resolve(ctx context.Context, lat, lon float64) *models.Topography
}

type Handler struct {
	config     *Config
	weather    WeatherResolver
	topography TopographyResolver
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, weather WeatherResolver, topography TopographyResolver, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		weather:    weather,
		topography: topography,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidStyleInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, toStandardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Latitude == nil || input.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidInput)
	}
	lat, lon := *input.Latitude, *input.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: coordinate (%.4f, %.4f) out of range", ErrInvalidInput, lat, lon)
	}

	out := models.LocationContext{
		Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
	}

	g, gctx := errgroup.WithContext(ctx)
	if enabled(input.IncludeWeather) && h.weather != nil {
		g.Go(func() error {
			out.Weather = h.weather.Resolve(gctx, lat, lon)
			return nil
		})
	}
	if enabled(input.IncludeTopography) && h.topography != nil {
		g.Go(func() error {
			out.Topography = h.topography.Resolve(gctx, lat, lon)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextFailed, err)
	}

	fields := map[string]interface{}{"latitude": lat, "longitude": lon}
	if out.Weather != nil {
		fields["weatherSource"] = out.Weather.Source
	}
	if out.Topography != nil {
		fields["topographySource"] = out.Topography.Source
	}
	h.logger.Info("location context resolved", fields)

	return &Output{Context: out}, nil
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	case errors.Is(err, ErrContextFailed):
		return apperrors.NewLocationContextFailedError(err)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
