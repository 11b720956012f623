package workers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu   sync.Mutex
	runs map[models.JobType]int
	err  error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{runs: make(map[models.JobType]int)}
}

func (f *fakeRunner) Run(jobType models.JobType, workerID string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[jobType]++
	job := models.NewJob(jobType, workerID, time.Now())
	if f.err != nil {
		job.Fail(f.err, time.Now())
		return job, f.err
	}
	job.Complete(0, time.Now())
	return job, nil
}

func (f *fakeRunner) count(jobType models.JobType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[jobType]
}

func TestIntervalWorkerRunsOnEveryTick(t *testing.T) {
	runner := newFakeRunner()
	wm := NewWorkerManager(runner, config.WorkersConfig{})
	worker := NewIntervalWorker("sweep-test", models.JobTypeEndingSweep, 10*time.Millisecond, runner, false)
	wm.Add(worker)

	assert.Eventually(t, func() bool { return runner.count(models.JobTypeEndingSweep) >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, wm.GetWorkerStatus()["sweep-test"])

	require.NoError(t, wm.StopAll())
	assert.False(t, worker.IsRunning())
}

func TestIntervalWorkerSurvivesFailures(t *testing.T) {
	runner := newFakeRunner()
	runner.err = errors.New("database is locked")
	wm := NewWorkerManager(runner, config.WorkersConfig{})
	wm.Add(NewIntervalWorker("scan-test", models.JobTypeAlertScan, 10*time.Millisecond, runner, true))

	assert.Eventually(t, func() bool { return runner.count(models.JobTypeAlertScan) >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, wm.StopAll())
}

func TestStartAllSkipsDisabledWorkers(t *testing.T) {
	runner := newFakeRunner()
	wm := NewWorkerManager(runner, config.WorkersConfig{
		AlertScanIntervalMinutes: 60,
		SweepIntervalHours:       0,
		NotificationCleanupHours: 24,
	})
	require.NoError(t, wm.StartAll())
	defer wm.StopAll()

	status := wm.GetWorkerStatus()
	assert.Len(t, status, 2)
	assert.NotContains(t, status, "ending-sweep-1")

	assert.Eventually(t, func() bool { return runner.count(models.JobTypeAlertScan) == 1 }, time.Second, 5*time.Millisecond,
		"the alert scan runs once at startup")
}

func TestStopIsIdempotent(t *testing.T) {
	w := NewBaseWorker("w", models.JobTypeAlertScan)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
