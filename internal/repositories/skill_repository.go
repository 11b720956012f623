package repositories

import (
	"database/sql"
	"errors"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

const skillColumns = `id, name, category, created_at`

type SkillRepository struct {
	db Querier
}

func NewSkillRepository(db Querier) *SkillRepository {
	return &SkillRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *SkillRepository) WithTx(tx *sql.Tx) *SkillRepository {
	return &SkillRepository{db: tx}
}

// Create creates a new skill
func (r *SkillRepository) Create(skill *models.Skill) error {
	query := `INSERT INTO skills (id, name, category, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		skill.ID.String(),
		skill.Name,
		skill.Category,
		skill.CreatedAt,
	)
	return err
}

// GetByID retrieves a skill by ID
func (r *SkillRepository) GetByID(id string) (*models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = ?`

	skill, err := scanSkill(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("Skill", id)
	}
	return skill, err
}

// GetByName retrieves a skill by name, ignoring case
func (r *SkillRepository) GetByName(name string) (*models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE name = ? COLLATE NOCASE`

	skill, err := scanSkill(r.db.QueryRow(query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("Skill", name)
	}
	return skill, err
}

// GetAll retrieves every skill ordered by name
func (r *SkillRepository) GetAll() ([]*models.Skill, error) {
	return r.list(`SELECT ` + skillColumns + ` FROM skills ORDER BY name COLLATE NOCASE`)
}

// GetByCategory retrieves the skills of a category
func (r *SkillRepository) GetByCategory(category string) ([]*models.Skill, error) {
	return r.list(`SELECT `+skillColumns+` FROM skills WHERE category = ? COLLATE NOCASE ORDER BY name COLLATE NOCASE`, category)
}

// SearchByName retrieves skills whose name contains fragment
func (r *SkillRepository) SearchByName(fragment string) ([]*models.Skill, error) {
	return r.list(`SELECT `+skillColumns+` FROM skills WHERE name LIKE ? ORDER BY name COLLATE NOCASE`, "%"+fragment+"%")
}

// GetCategories retrieves the distinct categories
func (r *SkillRepository) GetCategories() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT category FROM skills ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetByCollaborator retrieves the skills of a collaborator
func (r *SkillRepository) GetByCollaborator(collaboratorID string) ([]*models.Skill, error) {
	query := `
		SELECT s.id, s.name, s.category, s.created_at
		FROM skills s
		JOIN collaborator_skills cs ON cs.skill_id = s.id
		WHERE cs.collaborator_id = ?
		ORDER BY s.name COLLATE NOCASE
	`
	return r.list(query, collaboratorID)
}

// GetByProject retrieves the required skills of a project
func (r *SkillRepository) GetByProject(projectID string) ([]*models.Skill, error) {
	query := `
		SELECT s.id, s.name, s.category, s.created_at
		FROM skills s
		JOIN project_skills ps ON ps.skill_id = s.id
		WHERE ps.project_id = ?
		ORDER BY s.name COLLATE NOCASE
	`
	return r.list(query, projectID)
}

// SetCollaboratorSkills replaces the skill set of a collaborator
func (r *SkillRepository) SetCollaboratorSkills(collaboratorID string, skills []*models.Skill) error {
	if _, err := r.db.Exec(`DELETE FROM collaborator_skills WHERE collaborator_id = ?`, collaboratorID); err != nil {
		return err
	}
	for _, skill := range skills {
		if _, err := r.db.Exec(
			`INSERT OR IGNORE INTO collaborator_skills (collaborator_id, skill_id) VALUES (?, ?)`,
			collaboratorID, skill.ID.String(),
		); err != nil {
			return err
		}
	}
	return nil
}

// SetProjectSkills replaces the required skill set of a project
func (r *SkillRepository) SetProjectSkills(projectID string, skills []*models.Skill) error {
	if _, err := r.db.Exec(`DELETE FROM project_skills WHERE project_id = ?`, projectID); err != nil {
		return err
	}
	for _, skill := range skills {
		if _, err := r.db.Exec(
			`INSERT OR IGNORE INTO project_skills (project_id, skill_id) VALUES (?, ?)`,
			projectID, skill.ID.String(),
		); err != nil {
			return err
		}
	}
	return nil
}

// CountByActiveCollaborators builds the skill histogram over active collaborators
func (r *SkillRepository) CountByActiveCollaborators() ([]models.SkillCount, error) {
	query := `
		SELECT s.name, COUNT(*)
		FROM collaborator_skills cs
		JOIN skills s ON s.id = cs.skill_id
		JOIN collaborators c ON c.id = cs.collaborator_id
		WHERE c.active = 1
		GROUP BY s.id, s.name
	`
	return r.counts(query)
}

// CountByProjects builds the required skill histogram over all projects
func (r *SkillRepository) CountByProjects() ([]models.SkillCount, error) {
	query := `
		SELECT s.name, COUNT(*)
		FROM project_skills ps
		JOIN skills s ON s.id = ps.skill_id
		GROUP BY s.id, s.name
	`
	return r.counts(query)
}

// Update updates a skill
func (r *SkillRepository) Update(skill *models.Skill) error {
	result, err := r.db.Exec(`UPDATE skills SET name = ?, category = ? WHERE id = ?`,
		skill.Name,
		skill.Category,
		skill.ID.String(),
	)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Skill", skill.ID.String())
	}
	return nil
}

// Delete deletes a skill; join rows cascade
func (r *SkillRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Skill", id)
	}
	return nil
}

func (r *SkillRepository) list(query string, args ...any) ([]*models.Skill, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []*models.Skill{}
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (r *SkillRepository) counts(query string) ([]models.SkillCount, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.SkillCount
	for rows.Next() {
		var count models.SkillCount
		if err := rows.Scan(&count.Name, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSkill(row rowScanner) (*models.Skill, error) {
	skill := &models.Skill{}
	var id string
	err := row.Scan(&id, &skill.Name, &skill.Category, &skill.CreatedAt)
	if err != nil {
		return nil, err
	}
	skill.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	skill.CreatedAt = skill.CreatedAt.UTC()
	return skill, nil
}
