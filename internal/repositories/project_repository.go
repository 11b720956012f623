package repositories

import (
	"database/sql"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

const projectColumns = `p.id, p.name, p.description, p.client, p.project_manager, p.start_date, p.end_date, p.team_size, p.status, p.priority, p.active, p.progress, p.created_at, p.updated_at`

type ProjectRepository struct {
	db     Querier
	skills *SkillRepository
}

func NewProjectRepository(db Querier) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		skills: NewSkillRepository(db),
	}
}

// WithTx returns a repository bound to tx
func (r *ProjectRepository) WithTx(tx *sql.Tx) *ProjectRepository {
	return NewProjectRepository(tx)
}

// Create creates a new project together with its required skills
func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, client, project_manager, start_date, end_date, team_size, status, priority, active, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		project.ID.String(),
		project.Name,
		project.Description,
		project.Client,
		project.ProjectManager,
		project.StartDate,
		project.EndDate,
		project.TeamSize,
		project.Status,
		project.Priority,
		project.Active,
		project.Progress,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return r.skills.SetProjectSkills(project.ID.String(), project.RequiredSkills)
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(id string) (*models.Project, error) {
	projects, err := r.list(`SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, models.NewNotFoundError("Project", id)
	}
	return projects[0], nil
}

// GetAll retrieves every project
func (r *ProjectRepository) GetAll() ([]*models.Project, error) {
	return r.list(`SELECT ` + projectColumns + ` FROM projects p ORDER BY p.name COLLATE NOCASE`)
}

// GetByActive retrieves active or inactive projects
func (r *ProjectRepository) GetByActive(active bool) ([]*models.Project, error) {
	return r.list(`SELECT `+projectColumns+` FROM projects p WHERE p.active = ? ORDER BY p.name COLLATE NOCASE`, active)
}

// GetByStatus retrieves projects in any of the given statuses
func (r *ProjectRepository) GetByStatus(statuses ...models.ProjectStatus) ([]*models.Project, error) {
	if len(statuses) == 0 {
		return []*models.Project{}, nil
	}
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.status IN (` + placeholders(len(statuses)) + `) ORDER BY p.name COLLATE NOCASE`
	return r.list(query, args...)
}

// GetByClient retrieves projects of a client, ignoring case
func (r *ProjectRepository) GetByClient(client string) ([]*models.Project, error) {
	return r.list(`SELECT `+projectColumns+` FROM projects p WHERE p.client = ? COLLATE NOCASE ORDER BY p.name COLLATE NOCASE`, client)
}

// GetBySkills retrieves projects requiring any of the named skills
func (r *ProjectRepository) GetBySkills(skillNames ...string) ([]*models.Project, error) {
	if len(skillNames) == 0 {
		return []*models.Project{}, nil
	}
	query := `
		SELECT DISTINCT ` + projectColumns + `
		FROM projects p
		JOIN project_skills ps ON ps.project_id = p.id
		JOIN skills s ON s.id = ps.skill_id
		WHERE s.name COLLATE NOCASE IN (` + placeholders(len(skillNames)) + `)
		ORDER BY p.name COLLATE NOCASE
	`
	return r.list(query, stringArgs(skillNames)...)
}

// GetByCollaborator retrieves projects a collaborator is assigned to
func (r *ProjectRepository) GetByCollaborator(collaboratorID string) ([]*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		JOIN assignments a ON a.project_id = p.id
		WHERE a.collaborator_id = ?
		ORDER BY p.name COLLATE NOCASE
	`
	return r.list(query, collaboratorID)
}

// SearchByName retrieves projects whose name contains fragment, optionally
// restricted to statuses
func (r *ProjectRepository) SearchByName(fragment string, statuses []models.ProjectStatus) ([]*models.Project, error) {
	var conditions []string
	var args []any
	if fragment != "" {
		conditions = append(conditions, "p.name LIKE ?")
		args = append(args, "%"+fragment+"%")
	}
	if len(statuses) > 0 {
		conditions = append(conditions, "p.status IN ("+placeholders(len(statuses))+")")
		for _, status := range statuses {
			args = append(args, status)
		}
	}

	query := `SELECT ` + projectColumns + ` FROM projects p`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY p.name COLLATE NOCASE`
	return r.list(query, args...)
}

// Update updates a project and replaces its required skills
func (r *ProjectRepository) Update(project *models.Project) error {
	query := `
		UPDATE projects
		SET name = ?, description = ?, client = ?, project_manager = ?, start_date = ?, end_date = ?,
			team_size = ?, status = ?, priority = ?, active = ?, progress = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		project.Name,
		project.Description,
		project.Client,
		project.ProjectManager,
		project.StartDate,
		project.EndDate,
		project.TeamSize,
		project.Status,
		project.Priority,
		project.Active,
		project.Progress,
		project.UpdatedAt,
		project.ID.String(),
	)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Project", project.ID.String())
	}
	return r.skills.SetProjectSkills(project.ID.String(), project.RequiredSkills)
}

// SetActive flips the soft-delete flag
func (r *ProjectRepository) SetActive(id string, active bool, now time.Time) error {
	result, err := r.db.Exec(`UPDATE projects SET active = ?, updated_at = ? WHERE id = ?`, active, now.UTC(), id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Project", id)
	}
	return nil
}

// Delete deletes a project; assignments, alerts and skill links cascade
func (r *ProjectRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Project", id)
	}
	return nil
}

// CountByActive returns the number of active and inactive projects
func (r *ProjectRepository) CountByActive() (active int, inactive int, err error) {
	query := `SELECT COALESCE(SUM(CASE WHEN active = 1 THEN 1 ELSE 0 END), 0), COALESCE(SUM(CASE WHEN active = 0 THEN 1 ELSE 0 END), 0) FROM projects`
	err = r.db.QueryRow(query).Scan(&active, &inactive)
	return active, inactive, err
}

// list runs a project query and attaches required skills once the rows are closed
func (r *ProjectRepository) list(query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	projects := []*models.Project{}
	for rows.Next() {
		p := &models.Project{}
		var id string
		err := rows.Scan(
			&id,
			&p.Name,
			&p.Description,
			&p.Client,
			&p.ProjectManager,
			&p.StartDate,
			&p.EndDate,
			&p.TeamSize,
			&p.Status,
			&p.Priority,
			&p.Active,
			&p.Progress,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			rows.Close()
			return nil, err
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			rows.Close()
			return nil, err
		}
		p.StartDate = p.StartDate.UTC()
		p.EndDate = utcPtr(p.EndDate)
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, p := range projects {
		if p.RequiredSkills, err = r.skills.GetByProject(p.ID.String()); err != nil {
			return nil, err
		}
	}
	return projects, nil
}
