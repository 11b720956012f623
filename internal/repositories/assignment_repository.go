package repositories

import (
	"database/sql"
	"errors"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

const assignmentSelect = `
	SELECT a.id, a.collaborator_id, a.project_id, a.role, a.notes, a.created_at, c.name, p.name
	FROM assignments a
	JOIN collaborators c ON c.id = a.collaborator_id
	JOIN projects p ON p.id = a.project_id
`

type AssignmentRepository struct {
	db Querier
}

func NewAssignmentRepository(db Querier) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *AssignmentRepository) WithTx(tx *sql.Tx) *AssignmentRepository {
	return &AssignmentRepository{db: tx}
}

// Create creates a new assignment
func (r *AssignmentRepository) Create(a *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, collaborator_id, project_id, role, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		a.ID.String(),
		a.CollaboratorID.String(),
		a.ProjectID.String(),
		a.Role,
		a.Notes,
		a.CreatedAt,
	)
	return err
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(id string) (*models.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(assignmentSelect+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("Assignment", id)
	}
	return a, err
}

// GetAll retrieves every assignment, newest first
func (r *AssignmentRepository) GetAll() ([]*models.Assignment, error) {
	return r.list(assignmentSelect + ` ORDER BY a.created_at DESC`)
}

// GetByCollaborator retrieves the assignments of a collaborator
func (r *AssignmentRepository) GetByCollaborator(collaboratorID string) ([]*models.Assignment, error) {
	return r.list(assignmentSelect+` WHERE a.collaborator_id = ? ORDER BY a.created_at DESC`, collaboratorID)
}

// GetByProject retrieves the assignments of a project
func (r *AssignmentRepository) GetByProject(projectID string) ([]*models.Assignment, error) {
	return r.list(assignmentSelect+` WHERE a.project_id = ? ORDER BY a.created_at DESC`, projectID)
}

// GetByProjectStatus retrieves assignments whose project is in one of statuses
func (r *AssignmentRepository) GetByProjectStatus(statuses ...models.ProjectStatus) ([]*models.Assignment, error) {
	if len(statuses) == 0 {
		return []*models.Assignment{}, nil
	}
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	query := assignmentSelect + ` WHERE p.status IN (` + placeholders(len(statuses)) + `) ORDER BY a.created_at DESC`
	return r.list(query, args...)
}

// CountByProject returns the number of assignments of a project
func (r *AssignmentRepository) CountByProject(projectID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM assignments WHERE project_id = ?`, projectID).Scan(&count)
	return count, err
}

// CountByCollaborator returns the number of assignments of a collaborator
func (r *AssignmentRepository) CountByCollaborator(collaboratorID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM assignments WHERE collaborator_id = ?`, collaboratorID).Scan(&count)
	return count, err
}

// UpdateDetails changes the mutable role and notes
func (r *AssignmentRepository) UpdateDetails(id, role, notes string) error {
	result, err := r.db.Exec(`UPDATE assignments SET role = ?, notes = ? WHERE id = ?`, role, notes, id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Assignment", id)
	}
	return nil
}

// Delete deletes an assignment
func (r *AssignmentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Assignment", id)
	}
	return nil
}

func (r *AssignmentRepository) list(query string, args ...any) ([]*models.Assignment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	a := &models.Assignment{}
	var id, collaboratorID, projectID string
	err := row.Scan(
		&id,
		&collaboratorID,
		&projectID,
		&a.Role,
		&a.Notes,
		&a.CreatedAt,
		&a.CollaboratorName,
		&a.ProjectName,
	)
	if err != nil {
		return nil, err
	}
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if a.CollaboratorID, err = uuid.Parse(collaboratorID); err != nil {
		return nil, err
	}
	if a.ProjectID, err = uuid.Parse(projectID); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
