package models

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of periodic job
type JobType string

const (
	JobTypeAlertScan           JobType = "alert_scan"
	JobTypeEndingSweep         JobType = "ending_sweep"
	JobTypeNotificationCleanup JobType = "notification_cleanup"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeAlertScan, JobTypeEndingSweep, JobTypeNotificationCleanup:
		return true
	}
	return false
}

// JobStatus represents the status of a job run
type JobStatus string

const (
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job records one execution of a periodic job
type Job struct {
	ID            string     `json:"id"`
	JobType       JobType    `json:"job_type"`
	Status        JobStatus  `json:"status"`
	AffectedCount int        `json:"affected_count"`
	ErrorMessage  *string    `json:"error_message"`
	WorkerID      string     `json:"worker_id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// NewJob creates a new in-progress Job with a generated UUID
func NewJob(jobType JobType, workerID string, now time.Time) *Job {
	return &Job{
		ID:        uuid.New().String(),
		JobType:   jobType,
		Status:    JobStatusInProgress,
		WorkerID:  workerID,
		StartedAt: now.UTC(),
	}
}

// Complete marks the job as completed
func (j *Job) Complete(affected int, now time.Time) {
	completed := now.UTC()
	j.Status = JobStatusCompleted
	j.AffectedCount = affected
	j.CompletedAt = &completed
}

// Fail marks the job as failed with an error message
func (j *Job) Fail(err error, now time.Time) {
	completed := now.UTC()
	message := err.Error()
	j.Status = JobStatusFailed
	j.ErrorMessage = &message
	j.CompletedAt = &completed
}

// IsCompleted checks if the job is completed
func (j *Job) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// IsFailed checks if the job has failed
func (j *Job) IsFailed() bool {
	return j.Status == JobStatusFailed
}
