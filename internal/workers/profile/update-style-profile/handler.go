// internal/workers/profile/update-style-profile/handler.go
package updatestyleprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/common/validation"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-style-profile"
)

var (
	ErrInvalidInput    = errors.New("INVALID_STYLE_INPUT")
	ErrProfileNotFound = errors.New("PROFILE_NOT_FOUND")
)

type Handler struct {
	config     *Config
	store      profile.Store
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, store profile.Store, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store,
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
		h.errHandler.HandleJobError(context.Background(), client, job, toStandardError(err, input.UserID))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if result := validation.Struct(input); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(result.GetErrorMessages(), "; "))
	}
	if input.Update.IsEmpty() {
		return nil, fmt.Errorf("%w: update has no fields", ErrInvalidInput)
	}
	if g := input.Update.Gender; g != nil {
		lower := strings.ToLower(strings.TrimSpace(*g))
		input.Update.Gender = &lower
	}

	output := &Output{}
	updated, err := h.store.UpdateProfile(ctx, input.UserID, input.Update)
	if err != nil {
		return nil, err
	}
	output.Updated = updated

	if !updated {
		if !h.createIfMissing(input) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, input.UserID)
		}
		p := &models.UserProfile{UserID: input.UserID}
		p.Apply(input.Update)
		if err := h.store.SaveProfile(ctx, p); err != nil {
			return nil, err
		}
		output.Created = true
	}

	stored, err := h.store.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, input.UserID)
	}
	output.Profile = stored
	output.Normalized = profile.Normalize(*stored, h.logger)

	h.logger.Info("style profile saved", map[string]interface{}{
		"userId":   input.UserID,
		"created":  output.Created,
		"bodyType": output.Normalized.BodyType,
	})
	return output, nil
}

func (h *Handler) createIfMissing(input *Input) bool {
	if input.CreateIfMissing != nil {
		return *input.CreateIfMissing
	}
	return h.config.CreateIfMissing
}

func toStandardError(err error, userID string) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	case errors.Is(err, ErrProfileNotFound):
		return apperrors.NewProfileNotFoundError(userID)
	case errors.Is(err, profile.ErrStoreFailed):
		return apperrors.NewProfileStoreFailedError(err)
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
