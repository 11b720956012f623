package workers

import (
	"context"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/logger"
)

// JobRunner executes one maintenance job and records the run
type JobRunner interface {
	Run(jobType models.JobType, workerID string) (*models.Job, error)
}

// IntervalWorker runs one job type on a fixed interval
type IntervalWorker struct {
	*BaseWorker
	runner     JobRunner
	interval   time.Duration
	runOnStart bool
}

// NewIntervalWorker creates a worker that runs jobType every interval
func NewIntervalWorker(workerID string, jobType models.JobType, interval time.Duration, runner JobRunner, runOnStart bool) *IntervalWorker {
	return &IntervalWorker{
		BaseWorker: NewBaseWorker(workerID, jobType),
		runner:     runner,
		interval:   interval,
		runOnStart: runOnStart,
	}
}

// Start begins the worker loop
func (w *IntervalWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.Component("workers").WithField("worker_id", w.WorkerID).WithField("job_type", w.JobType)
	log.WithField("interval", w.interval.String()).Info("Worker started")

	if w.runOnStart {
		w.runOnce()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("Worker stopping")
			return nil
		case <-ticker.C:
			w.runOnce()
		}
	}
}

// runOnce runs a single job; failures are already recorded on the job run
func (w *IntervalWorker) runOnce() {
	if _, err := w.runner.Run(w.JobType, w.WorkerID); err != nil {
		logger.Component("workers").WithError(err).WithField("worker_id", w.WorkerID).Warn("Job run failed")
	}
}
