// internal/workers/outfits/suggest-outfits/handler.go
package suggestoutfits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "suggest-outfits"
)

var (
	ErrInvalidInput      = errors.New("INVALID_STYLE_INPUT")
	ErrSuggestionTimeout = errors.New("AI_TIMEOUT")
)

type Suggester interface {
	Suggest(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string, maxBytes int64) ([]byte, string, error)
}

type Handler struct {
	config     *Config
	suggester  Suggester
	images     ImageFetcher
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, suggester Suggester, images ImageFetcher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		suggester:  suggester,
		images:     images,
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
	if err := h.validate(input); err != nil {
		return nil, err
	}

	req := recommend.Request{
		UserID:       input.UserID,
		Profile:      input.Profile,
		CategorySlug: input.CategorySlug,
		Location:     input.Location,
		Count:        input.Count,
	}

	var warnings []string
	if input.ImageURL != "" {
		img, err := h.fetchImage(ctx, input.ImageURL)
		if err != nil {
			h.logger.Warn("reference photo unavailable, continuing without it", map[string]interface{}{
				"imageUrl": input.ImageURL,
				"error":    err,
			})
			warnings = append(warnings, "image: "+err.Error())
		} else {
			req.Image = img
		}
	}

	resp, err := h.suggester.Suggest(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrSuggestionTimeout
		}
		return nil, err
	}

	return &Output{
		Outfits:    resp.Outfits,
		Source:     resp.Source,
		Notice:     resp.Notice,
		Warnings:   append(warnings, resp.Warnings...),
		Gender:     resp.Gender,
		Category:   resp.Context,
		Weather:    resp.Weather,
		Topography: resp.Topography,
	}, nil
}

func (h *Handler) validate(input *Input) error {
	if input.Count < 0 || (h.config.MaxCount > 0 && input.Count > h.config.MaxCount) {
		return fmt.Errorf("%w: count must be between 0 and %d", ErrInvalidInput, h.config.MaxCount)
	}
	if loc := input.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return fmt.Errorf("%w: location out of range", ErrInvalidInput)
		}
	}
	if input.ImageURL != "" {
		u, err := url.Parse(input.ImageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: imageUrl must be an absolute http(s) URL", ErrInvalidInput)
		}
	}
	return nil
}

func (h *Handler) fetchImage(ctx context.Context, imageURL string) (*gateway.Image, error) {
	data, contentType, err := h.images.Fetch(ctx, imageURL, nil, h.config.ImageMaxBytes)
	if err != nil {
		return nil, err
	}
	mime := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	return &gateway.Image{Data: data, MIMEType: mime}, nil
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	case errors.Is(err, ErrSuggestionTimeout):
		return apperrors.NewAITimeoutError()
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
