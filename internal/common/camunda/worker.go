// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// WorkerSettings controls job activation for one task type.
type WorkerSettings struct {
	MaxJobsActive int
	Timeout       time.Duration
}

type JobWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens a job worker for taskType. Every job is counted in the
// active gauge and timed in the duration histogram.
func StartWorker(
	client zbc.Client,
	taskType string,
	settings WorkerSettings,
	handler worker.JobHandler,
	log logger.Logger,
) *JobWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler)).
		MaxJobsActive(settings.MaxJobsActive).
		Timeout(settings.Timeout).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": settings.MaxJobsActive,
		"timeout":       settings.Timeout.String(),
	})

	return &JobWorker{worker: jobWorker, logger: log, taskType: taskType}
}

// Instrument wraps handler with job metrics.
func Instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		start := time.Now()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()
		handler(client, job)
	}
}

func (w *JobWorker) TaskType() string {
	return w.taskType
}

func (w *JobWorker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
