// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"stylist-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler fails or throws a job from a StandardError.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Decision is the outcome of mapping an error onto a job.
type Decision struct {
	Standard *StandardError
	BPMN     *BPMNError
	Retries  int32
	Throw    bool
}

// Decide maps err to either a retrying job failure or a thrown BPMN error.
func Decide(err error, jobRetries int32) Decision {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	retries := int32(bpmnErr.Retries)
	if jobRetries > 0 && jobRetries-1 < retries {
		retries = jobRetries - 1
	}

	if bpmnErr.Retries == 0 || retries <= 0 {
		return Decision{Standard: stdErr, BPMN: bpmnErr, Throw: true}
	}
	return Decision{Standard: stdErr, BPMN: bpmnErr, Retries: retries}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HandleJobError handles any error in a worker job
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	d := Decide(err, job.Retries)
	h.logError(job, d)
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(d.Standard.Code)).Inc()

	varsJSON, _ := json.Marshal(d.BPMN.ToErrorVariables())

	if d.Throw {
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(d.BPMN.Code).
			ErrorMessage(d.BPMN.Message)
		if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
			_, _ = withVars.Send(ctx)
			return
		}
		_, _ = cmd.Send(ctx)
		return
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(d.Retries).
		ErrorMessage(d.BPMN.Message)
	if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
		_, _ = withVars.Send(ctx)
		return
	}
	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) logError(job entities.Job, d Decision) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(d.Standard.Code),
		"bpmnErrorCode":    d.BPMN.Code,
		"message":          d.BPMN.Message,
		"details":          d.Standard.Details,
		"retryable":        d.Standard.Retryable,
		"retries":          d.Retries,
		"thrown":           d.Throw,
		"errorCategory":    GetErrorCategory(d.Standard.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
