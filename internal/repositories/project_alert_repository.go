package repositories

import (
	"database/sql"
	"errors"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

const alertSelect = `
	SELECT pa.id, pa.project_id, p.name, pa.type, pa.severity, pa.message, pa.created_at, pa.resolved
	FROM project_alerts pa
	JOIN projects p ON p.id = pa.project_id
`

type ProjectAlertRepository struct {
	db Querier
}

func NewProjectAlertRepository(db Querier) *ProjectAlertRepository {
	return &ProjectAlertRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *ProjectAlertRepository) WithTx(tx *sql.Tx) *ProjectAlertRepository {
	return &ProjectAlertRepository{db: tx}
}

// Create creates a new alert
func (r *ProjectAlertRepository) Create(alert *models.ProjectAlert) error {
	query := `
		INSERT INTO project_alerts (id, project_id, type, severity, message, created_at, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		alert.ID.String(),
		alert.ProjectID.String(),
		alert.Type,
		alert.Severity,
		alert.Message,
		alert.CreatedAt,
		alert.Resolved,
	)
	return err
}

// ExistsUnresolved reports whether an open alert of alertType exists for the project
func (r *ProjectAlertRepository) ExistsUnresolved(projectID string, alertType models.AlertType) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM project_alerts WHERE project_id = ? AND type = ? AND resolved = 0)`
	err := r.db.QueryRow(query, projectID, alertType).Scan(&exists)
	return exists, err
}

// GetByID retrieves an alert by ID
func (r *ProjectAlertRepository) GetByID(id string) (*models.ProjectAlert, error) {
	alert, err := scanAlert(r.db.QueryRow(alertSelect+` WHERE pa.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("Alert", id)
	}
	return alert, err
}

// GetUnresolved retrieves open alerts, newest first
func (r *ProjectAlertRepository) GetUnresolved() ([]*models.ProjectAlert, error) {
	return r.list(alertSelect + ` WHERE pa.resolved = 0 ORDER BY pa.created_at DESC`)
}

// GetUnresolvedBySeverity retrieves open alerts of the given severities, newest first
func (r *ProjectAlertRepository) GetUnresolvedBySeverity(severities ...models.AlertSeverity) ([]*models.ProjectAlert, error) {
	if len(severities) == 0 {
		return []*models.ProjectAlert{}, nil
	}
	args := make([]any, len(severities))
	for i, severity := range severities {
		args[i] = severity
	}
	query := alertSelect + ` WHERE pa.resolved = 0 AND pa.severity IN (` + placeholders(len(severities)) + `) ORDER BY pa.created_at DESC`
	return r.list(query, args...)
}

// GetUnresolvedByProject retrieves the open alerts of a project, newest first
func (r *ProjectAlertRepository) GetUnresolvedByProject(projectID string) ([]*models.ProjectAlert, error) {
	return r.list(alertSelect+` WHERE pa.project_id = ? AND pa.resolved = 0 ORDER BY pa.created_at DESC`, projectID)
}

// Resolve marks an alert resolved
func (r *ProjectAlertRepository) Resolve(id string) error {
	result, err := r.db.Exec(`UPDATE project_alerts SET resolved = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Alert", id)
	}
	return nil
}

func (r *ProjectAlertRepository) list(query string, args ...any) ([]*models.ProjectAlert, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []*models.ProjectAlert{}
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func scanAlert(row rowScanner) (*models.ProjectAlert, error) {
	alert := &models.ProjectAlert{}
	var id, projectID string
	err := row.Scan(
		&id,
		&projectID,
		&alert.ProjectName,
		&alert.Type,
		&alert.Severity,
		&alert.Message,
		&alert.CreatedAt,
		&alert.Resolved,
	)
	if err != nil {
		return nil, err
	}
	if alert.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if alert.ProjectID, err = uuid.Parse(projectID); err != nil {
		return nil, err
	}
	alert.CreatedAt = alert.CreatedAt.UTC()
	return alert, nil
}
