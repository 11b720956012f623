package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/config"
	"github.com/alimgiray/staffhub/pkg/logger"
)

// WorkerManager manages the periodic maintenance workers
type WorkerManager struct {
	workers []Worker
	runner  JobRunner
	cfg     config.WorkersConfig
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(runner JobRunner, cfg config.WorkersConfig) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers: make([]Worker, 0),
		runner:  runner,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartAll starts one worker per job type using the configured intervals.
// A non-positive interval disables that worker.
func (wm *WorkerManager) StartAll() error {
	schedule := []struct {
		id         string
		jobType    models.JobType
		interval   time.Duration
		runOnStart bool
	}{
		{"alert-scan-1", models.JobTypeAlertScan, time.Duration(wm.cfg.AlertScanIntervalMinutes) * time.Minute, true},
		{"ending-sweep-1", models.JobTypeEndingSweep, time.Duration(wm.cfg.SweepIntervalHours) * time.Hour, false},
		{"notification-cleanup-1", models.JobTypeNotificationCleanup, time.Duration(wm.cfg.NotificationCleanupHours) * time.Hour, false},
	}

	log := logger.Component("workers")
	for _, s := range schedule {
		if s.interval <= 0 {
			log.WithField("job_type", s.jobType).Info("Worker disabled")
			continue
		}
		wm.Add(NewIntervalWorker(s.id, s.jobType, s.interval, wm.runner, s.runOnStart))
	}

	log.Infof("Started %d total workers", len(wm.workers))
	return nil
}

// Add registers and starts a worker
func (wm *WorkerManager) Add(worker Worker) {
	wm.workers = append(wm.workers, worker)
	wm.startWorker(worker)
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	log := logger.Component("workers")
	log.Info("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			log.WithError(err).WithField("worker_id", worker.GetWorkerID()).Error("Error stopping worker")
		}
	}

	wm.wg.Wait()

	log.Info("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Component("workers").WithError(err).WithField("worker_id", worker.GetWorkerID()).Error("Worker stopped with error")
		}
	}()
}

// GetWorkerStatus returns the running state of every worker
func (wm *WorkerManager) GetWorkerStatus() map[string]bool {
	status := make(map[string]bool)
	for _, worker := range wm.workers {
		status[worker.GetWorkerID()] = worker.IsRunning()
	}
	return status
}
