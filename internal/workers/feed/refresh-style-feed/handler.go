// internal/workers/feed/refresh-style-feed/handler.go
package refreshstylefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/styling/refresh"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "refresh-style-feed"
)

var (
	ErrInvalidInput   = errors.New("INVALID_STYLE_INPUT")
	ErrRefreshTimeout = errors.New("AI_TIMEOUT")
)

type Refresher interface {
	Refresh(ctx context.Context, owner string, req refresh.Request) (*refresh.Snapshot, bool, error)
}

type Handler struct {
	config     *Config
	refresher  Refresher
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, refresher Refresher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		refresher:  refresher,
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
	owner := strings.TrimSpace(input.Owner)
	if owner == "" {
		owner = strings.TrimSpace(input.UserID)
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: userId or owner is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.CategorySlug) == "" {
		return nil, fmt.Errorf("%w: categorySlug is required", ErrInvalidInput)
	}
	if input.Count < 0 || input.Count > h.config.MaxCount {
		return nil, fmt.Errorf("%w: count must be between 0 and %d", ErrInvalidInput, h.config.MaxCount)
	}
	if loc := input.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return nil, fmt.Errorf("%w: location out of range", ErrInvalidInput)
		}
	}

	snap, published, err := h.refresher.Refresh(ctx, owner, refresh.Request{
		UserID:       input.UserID,
		CategorySlug: input.CategorySlug,
		Location:     input.Location,
		Count:        input.Count,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrRefreshTimeout
		}
		return nil, err
	}

	h.logger.Info("style feed refreshed", map[string]interface{}{
		"owner":     owner,
		"seq":       snap.Seq,
		"published": published,
		"warnings":  len(snap.Warnings),
	})

	return &Output{
		Seq:         snap.Seq,
		RequestID:   snap.RequestID,
		Published:   published,
		Profile:     snap.Profile,
		Normalized:  snap.Normalized,
		Advice:      snap.Advice,
		Suggestions: snap.Suggestions,
		Warnings:    snap.Warnings,
	}, nil
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	case errors.Is(err, ErrRefreshTimeout):
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
