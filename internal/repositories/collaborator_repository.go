package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

const collaboratorColumns = `c.id, c.name, c.email, c.phone, c.role, c.grade, c.experience_years, c.status, c.active, c.created_at, c.updated_at`

type CollaboratorRepository struct {
	db     Querier
	skills *SkillRepository
}

func NewCollaboratorRepository(db Querier) *CollaboratorRepository {
	return &CollaboratorRepository{
		db:     db,
		skills: NewSkillRepository(db),
	}
}

// WithTx returns a repository bound to tx
func (r *CollaboratorRepository) WithTx(tx *sql.Tx) *CollaboratorRepository {
	return NewCollaboratorRepository(tx)
}

// Create creates a new collaborator together with its skill links
func (r *CollaboratorRepository) Create(c *models.Collaborator) error {
	query := `
		INSERT INTO collaborators (id, name, email, phone, role, grade, experience_years, status, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		c.ID.String(),
		c.Name,
		c.Email,
		c.Phone,
		c.Role,
		c.Grade,
		c.ExperienceYears,
		c.Status,
		c.Active,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return r.skills.SetCollaboratorSkills(c.ID.String(), c.Skills)
}

// GetByID retrieves a collaborator by ID
func (r *CollaboratorRepository) GetByID(id string) (*models.Collaborator, error) {
	collaborators, err := r.list(`SELECT `+collaboratorColumns+` FROM collaborators c WHERE c.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(collaborators) == 0 {
		return nil, models.NewNotFoundError("Collaborator", id)
	}
	return collaborators[0], nil
}

// GetByEmail retrieves a collaborator by email, ignoring case
func (r *CollaboratorRepository) GetByEmail(email string) (*models.Collaborator, error) {
	collaborators, err := r.list(`SELECT `+collaboratorColumns+` FROM collaborators c WHERE c.email = ? COLLATE NOCASE`, email)
	if err != nil {
		return nil, err
	}
	if len(collaborators) == 0 {
		return nil, models.NewNotFoundError("Collaborator", email)
	}
	return collaborators[0], nil
}

// GetAll retrieves every collaborator
func (r *CollaboratorRepository) GetAll() ([]*models.Collaborator, error) {
	return r.list(`SELECT ` + collaboratorColumns + ` FROM collaborators c ORDER BY c.name COLLATE NOCASE`)
}

// GetByActive retrieves active or inactive collaborators
func (r *CollaboratorRepository) GetByActive(active bool) ([]*models.Collaborator, error) {
	return r.list(`SELECT `+collaboratorColumns+` FROM collaborators c WHERE c.active = ? ORDER BY c.name COLLATE NOCASE`, active)
}

// GetActiveByStatus retrieves active collaborators with the given status
func (r *CollaboratorRepository) GetActiveByStatus(status models.CollaboratorStatus) ([]*models.Collaborator, error) {
	return r.list(`SELECT `+collaboratorColumns+` FROM collaborators c WHERE c.active = 1 AND c.status = ? ORDER BY c.name COLLATE NOCASE`, status)
}

// Search matches name or email, ignoring case
func (r *CollaboratorRepository) Search(term string) ([]*models.Collaborator, error) {
	pattern := "%" + term + "%"
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators c WHERE c.name LIKE ? OR c.email LIKE ? ORDER BY c.name COLLATE NOCASE`
	return r.list(query, pattern, pattern)
}

// GetBySkill retrieves collaborators holding the named skill
func (r *CollaboratorRepository) GetBySkill(skillName string) ([]*models.Collaborator, error) {
	query := `
		SELECT ` + collaboratorColumns + `
		FROM collaborators c
		JOIN collaborator_skills cs ON cs.collaborator_id = c.id
		JOIN skills s ON s.id = cs.skill_id
		WHERE s.name = ? COLLATE NOCASE
		ORDER BY c.name COLLATE NOCASE
	`
	return r.list(query, skillName)
}

// GetByProject retrieves collaborators assigned to a project
func (r *CollaboratorRepository) GetByProject(projectID string) ([]*models.Collaborator, error) {
	query := `
		SELECT ` + collaboratorColumns + `
		FROM collaborators c
		JOIN assignments a ON a.collaborator_id = c.id
		WHERE a.project_id = ?
		ORDER BY c.name COLLATE NOCASE
	`
	return r.list(query, projectID)
}

// Update updates a collaborator and replaces its skill links
func (r *CollaboratorRepository) Update(c *models.Collaborator) error {
	query := `
		UPDATE collaborators
		SET name = ?, email = ?, phone = ?, role = ?, grade = ?, experience_years = ?, status = ?, active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		c.Name,
		c.Email,
		c.Phone,
		c.Role,
		c.Grade,
		c.ExperienceYears,
		c.Status,
		c.Active,
		c.UpdatedAt,
		c.ID.String(),
	)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Collaborator", c.ID.String())
	}
	return r.skills.SetCollaboratorSkills(c.ID.String(), c.Skills)
}

// UpdateStatus changes only the workflow status
func (r *CollaboratorRepository) UpdateStatus(id string, status models.CollaboratorStatus, now time.Time) error {
	result, err := r.db.Exec(`UPDATE collaborators SET status = ?, updated_at = ? WHERE id = ?`, status, now.UTC(), id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Collaborator", id)
	}
	return nil
}

// SetActive flips the soft-delete flag
func (r *CollaboratorRepository) SetActive(id string, active bool, now time.Time) error {
	result, err := r.db.Exec(`UPDATE collaborators SET active = ?, updated_at = ? WHERE id = ?`, active, now.UTC(), id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Collaborator", id)
	}
	return nil
}

// Delete deletes a collaborator
func (r *CollaboratorRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM collaborators WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Collaborator", id)
	}
	return nil
}

// CountByStatus counts active collaborators per status
func (r *CollaboratorRepository) CountByStatus() (map[models.CollaboratorStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM collaborators WHERE active = 1 GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.CollaboratorStatus]int)
	for rows.Next() {
		var status models.CollaboratorStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CountByActive returns the number of active and inactive collaborators
func (r *CollaboratorRepository) CountByActive() (active int, inactive int, err error) {
	query := `SELECT COALESCE(SUM(CASE WHEN active = 1 THEN 1 ELSE 0 END), 0), COALESCE(SUM(CASE WHEN active = 0 THEN 1 ELSE 0 END), 0) FROM collaborators`
	err = r.db.QueryRow(query).Scan(&active, &inactive)
	return active, inactive, err
}

// list runs a collaborator query and attaches skills once the rows are closed
func (r *CollaboratorRepository) list(query string, args ...any) ([]*models.Collaborator, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	collaborators := []*models.Collaborator{}
	for rows.Next() {
		c := &models.Collaborator{}
		var id string
		err := rows.Scan(
			&id,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Role,
			&c.Grade,
			&c.ExperienceYears,
			&c.Status,
			&c.Active,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			rows.Close()
			return nil, err
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			rows.Close()
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		c.UpdatedAt = c.UpdatedAt.UTC()
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, c := range collaborators {
		if c.Skills, err = r.skills.GetByCollaborator(c.ID.String()); err != nil {
			return nil, err
		}
	}
	return collaborators, nil
}

