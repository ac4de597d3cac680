// internal/workers/advice/match-advice/handler.go
package matchadvice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/advice"
	"stylist-workers/internal/styling/category"
	"stylist-workers/internal/styling/profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "match-advice"
)

var (
	ErrInvalidInput = errors.New("INVALID_STYLE_INPUT")
)

type Catalog interface {
	Entries(ctx context.Context) ([]models.AdviceEntry, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type Handler struct {
	config     *Config
	catalog    Catalog
	profiles   ProfileReader
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, catalog Catalog, profiles ProfileReader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    catalog,
		profiles:   profiles,
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
	slug := strings.TrimSpace(input.CategorySlug)
	if slug == "" {
		return nil, fmt.Errorf("%w: categorySlug is required", ErrInvalidInput)
	}

	up, found, err := h.loadProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	normalized := profile.Normalize(*up, h.logger)

	entries, err := h.catalog.Entries(ctx)
	if err != nil {
		return nil, err
	}

	policy := category.ParsePolicy(input.GenderPolicy, h.config.GenderPolicy)
	output := &Output{
		Advice:       []string{},
		Sources:      []string{},
		Category:     strings.ToLower(category.MapCategorySlugToDbCategory(slug)),
		Gender:       category.ResolveGender(policy, normalized.Gender, slug),
		ProfileFound: found,
		Profile:      normalized,
	}

	result, ok := advice.Match(entries, normalized, slug, policy)
	if !ok {
		h.logger.Info("no advice matched", map[string]interface{}{
			"category": output.Category,
			"entries":  len(entries),
		})
		return output, nil
	}

	output.Found = true
	output.Advice = append(output.Advice, result.Entry.Advice...)
	output.Sources = append(output.Sources, result.Entry.Source...)
	output.MatchedCategory = result.Entry.Category
	output.Stage = result.Stage
	output.Score = result.Score
	output.Gender = result.Gender

	h.logger.Info("advice matched", map[string]interface{}{
		"category": output.Category,
		"stage":    result.Stage,
		"score":    result.Score,
	})
	return output, nil
}

// loadProfile prefers an inline profile. A user without a stored profile gets
// an empty one, which normalizes to defaults.
func (h *Handler) loadProfile(ctx context.Context, input *Input) (*models.UserProfile, bool, error) {
	if input.Profile != nil {
		p := *input.Profile
		return &p, true, nil
	}
	if input.UserID == "" || h.profiles == nil {
		return &models.UserProfile{}, false, nil
	}
	p, err := h.profiles.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return &models.UserProfile{UserID: input.UserID}, false, nil
	}
	return p, true, nil
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	case errors.Is(err, advice.ErrSourceFailed):
		return apperrors.NewAdviceSourceFailedError("catalog", err)
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
