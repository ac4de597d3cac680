// internal/workers/outfits/analyze-twinning/handler.go
package analyzetwinning

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
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/twinning"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "analyze-twinning"
)

var (
	ErrInvalidInput     = errors.New("INVALID_STYLE_INPUT")
	ErrImageFetchFailed = errors.New("IMAGE_FETCH_FAILED")
	ErrAnalysisTimeout  = errors.New("AI_TIMEOUT")
)

type Analyzer interface {
	Analyze(ctx context.Context, req twinning.Request) (*models.TwinningAnalysis, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string, maxBytes int64) ([]byte, string, error)
}

type Handler struct {
	config     *Config
	analyzer   Analyzer
	images     ImageFetcher
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, analyzer Analyzer, images ImageFetcher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		analyzer:   analyzer,
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
	if err := validate(input); err != nil {
		return nil, err
	}

	req := twinning.Request{
		PersonA:           twinning.Person{Hint: hint(input.PersonA)},
		PersonB:           twinning.Person{Hint: hint(input.PersonB)},
		Relationship:      input.Relationship,
		CoordinationStyle: input.CoordinationStyle,
		Occasion:          input.Occasion,
		Count:             input.Count,
	}

	g, gctx := errgroup.WithContext(ctx)
	fetchInto := func(dst **gateway.Image, rawURL string) {
		if rawURL == "" {
			return
		}
		g.Go(func() error {
			img, err := h.fetchImage(gctx, rawURL)
			if err != nil {
				return err
			}
			*dst = img
			return nil
		})
	}
	fetchInto(&req.PersonA.Image, input.PersonA.ImageURL)
	fetchInto(&req.PersonB.Image, input.PersonB.ImageURL)
	fetchInto(&req.Place, input.PlaceImageURL)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrAnalysisTimeout
		}
		return nil, err
	}

	h.logger.Info("twinning analysis complete", map[string]interface{}{
		"source":   analysis.Source,
		"warnings": len(analysis.Warnings),
	})
	return &Output{Analysis: analysis}, nil
}

func validate(input *Input) error {
	for label, p := range map[string]PersonInput{"personA": input.PersonA, "personB": input.PersonB} {
		if p.ImageURL == "" && p.Gender == "" {
			return fmt.Errorf("%w: %s needs an imageUrl or a gender", ErrInvalidInput, label)
		}
	}
	for _, raw := range []string{input.PersonA.ImageURL, input.PersonB.ImageURL, input.PlaceImageURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidInput, raw)
		}
	}
	if input.Count < 0 || input.Count > 5 {
		return fmt.Errorf("%w: count must be between 0 and 5", ErrInvalidInput)
	}
	return nil
}

func hint(p PersonInput) models.PersonAnalysis {
	return models.PersonAnalysis{
		Gender:       p.Gender,
		HeightBucket: p.HeightBucket,
		BodyType:     p.BodyType,
		SkinTone:     p.SkinTone,
	}
}

func (h *Handler) fetchImage(ctx context.Context, imageURL string) (*gateway.Image, error) {
	data, contentType, err := h.images.Fetch(ctx, imageURL, nil, h.config.ImageMaxBytes)
	if err != nil {
		return nil, &imageError{url: imageURL, err: err}
	}
	mime := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if !strings.HasPrefix(mime, "image/") {
		return nil, &imageError{url: imageURL, err: fmt.Errorf("unsupported content type %q", contentType)}
	}
	return &gateway.Image{Data: data, MIMEType: mime}, nil
}

type imageError struct {
	url string
	err error
}

func (e *imageError) Error() string { return fmt.Sprintf("%s: fetch %s: %v", ErrImageFetchFailed, e.url, e.err) }
func (e *imageError) Unwrap() error { return ErrImageFetchFailed }

func toStandardError(err error) *apperrors.StandardError {
	var imgErr *imageError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	case errors.As(err, &imgErr):
		return apperrors.NewImageFetchFailedError(imgErr.url, imgErr.err)
	case errors.Is(err, ErrAnalysisTimeout):
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
