package services

import (
	"fmt"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/logger"
)

const defaultJobHistory = 50

// JobService runs the periodic maintenance jobs and records each run
type JobService struct {
	clock
	jobRepo             *repositories.JobRepository
	alertService        *ProjectAlertService
	assignmentService   *AssignmentService
	notificationService *NotificationService
}

func NewJobService(
	jobRepo *repositories.JobRepository,
	alertService *ProjectAlertService,
	assignmentService *AssignmentService,
	notificationService *NotificationService,
) *JobService {
	return &JobService{
		clock:               clock{Now: time.Now},
		jobRepo:             jobRepo,
		alertService:        alertService,
		assignmentService:   assignmentService,
		notificationService: notificationService,
	}
}

// Run executes one job of jobType on behalf of workerID and records its outcome
func (s *JobService) Run(jobType models.JobType, workerID string) (*models.Job, error) {
	action, err := s.action(jobType)
	if err != nil {
		return nil, err
	}

	job := models.NewJob(jobType, workerID, s.now())
	if err := s.jobRepo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to record job start: %w", err)
	}

	log := logger.Component("jobs").WithField("job_type", jobType).WithField("worker_id", workerID)
	affected, runErr := action()
	if runErr != nil {
		job.Fail(runErr, s.now())
		log.WithError(runErr).Error("Job failed")
	} else {
		job.Complete(affected, s.now())
		log.WithField("affected", affected).Info("Job completed")
	}

	if err := s.jobRepo.Finish(job); err != nil {
		return job, fmt.Errorf("failed to record job outcome: %w", err)
	}
	return job, runErr
}

func (s *JobService) action(jobType models.JobType) (func() (int, error), error) {
	switch jobType {
	case models.JobTypeAlertScan:
		return s.alertService.CheckForNewAlerts, nil
	case models.JobTypeEndingSweep:
		return s.assignmentService.RemoveCollaboratorsFromEndingProjects, nil
	case models.JobTypeNotificationCleanup:
		return s.notificationService.CleanupReadNotifications, nil
	default:
		return nil, models.NewValidationError("job_type", fmt.Sprintf("unknown job type %q", jobType))
	}
}

// GetRecentJobs lists the latest runs, optionally of one type
func (s *JobService) GetRecentJobs(jobType models.JobType, limit int) ([]*models.Job, error) {
	if jobType != "" && !jobType.Valid() {
		return nil, models.NewValidationError("job_type", fmt.Sprintf("unknown job type %q", jobType))
	}
	if limit <= 0 {
		limit = defaultJobHistory
	}
	return s.jobRepo.GetRecent(jobType, limit)
}
