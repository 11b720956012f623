package repositories

import (
	"database/sql"
	"errors"

	"github.com/alimgiray/staffhub/internal/models"
)

const jobColumns = `id, job_type, status, affected_count, error_message, worker_id, started_at, completed_at`

// JobRepository handles database operations for job runs
type JobRepository struct {
	db Querier
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db Querier) *JobRepository {
	return &JobRepository{db: db}
}

// Create records the start of a job run
func (r *JobRepository) Create(job *models.Job) error {
	query := `
		INSERT INTO job_runs (id, job_type, status, affected_count, error_message, worker_id, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		job.ID,
		job.JobType,
		job.Status,
		job.AffectedCount,
		job.ErrorMessage,
		job.WorkerID,
		job.StartedAt,
		job.CompletedAt,
	)
	return err
}

// Finish stores the outcome of a job run
func (r *JobRepository) Finish(job *models.Job) error {
	query := `
		UPDATE job_runs
		SET status = ?, affected_count = ?, error_message = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		job.Status,
		job.AffectedCount,
		job.ErrorMessage,
		job.CompletedAt,
		job.ID,
	)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Job", job.ID)
	}
	return nil
}

// GetByID retrieves a job run by ID
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRow(`SELECT `+jobColumns+` FROM job_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("Job", id)
	}
	return job, err
}

// GetRecent retrieves the latest job runs, optionally of one type
func (r *JobRepository) GetRecent(jobType models.JobType, limit int) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM job_runs`
	var args []any
	if jobType != "" {
		query += ` WHERE job_type = ?`
		args = append(args, jobType)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row rowScanner) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(
		&job.ID,
		&job.JobType,
		&job.Status,
		&job.AffectedCount,
		&job.ErrorMessage,
		&job.WorkerID,
		&job.StartedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	job.StartedAt = job.StartedAt.UTC()
	job.CompletedAt = utcPtr(job.CompletedAt)
	return job, nil
}
