package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/cache"
)

type SkillService struct {
	skillRepo *repositories.SkillRepository
	cache     *cache.Cache[string, models.Skill]
}

func NewSkillService(skillRepo *repositories.SkillRepository, skillCache *cache.Cache[string, models.Skill]) *SkillService {
	return &SkillService{
		skillRepo: skillRepo,
		cache:     skillCache,
	}
}

// FindOrCreate resolves a skill by name, creating it in the default category when absent
func (s *SkillService) FindOrCreate(name string) (*models.Skill, error) {
	return findOrCreateSkill(s.skillRepo, name)
}

// ResolveSkills maps names to skill records inside the caller's transaction.
// Names are trimmed and de-duplicated ignoring case.
func (s *SkillService) ResolveSkills(tx *sql.Tx, names []string) ([]*models.Skill, error) {
	repo := s.skillRepo.WithTx(tx)
	seen := make(map[string]bool)
	skills := []*models.Skill{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		skill, err := findOrCreateSkill(repo, name)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

func findOrCreateSkill(repo *repositories.SkillRepository, name string) (*models.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrSkillNameRequired
	}

	skill, err := repo.GetByName(name)
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up skill %q: %w", name, err)
	}

	skill = models.NewSkill(name, models.DefaultSkillCategory)
	if err := repo.Create(skill); err != nil {
		// Lost a race with a concurrent creator
		if repositories.IsUniqueViolation(err) {
			return repo.GetByName(name)
		}
		return nil, fmt.Errorf("failed to create skill %q: %w", name, err)
	}
	return skill, nil
}

// GetAllSkills retrieves every skill
func (s *SkillService) GetAllSkills() ([]*models.Skill, error) {
	return s.skillRepo.GetAll()
}

// GetSkillByID retrieves a skill through the cache
func (s *SkillService) GetSkillByID(id string) (*models.Skill, error) {
	if err := validateID("Skill", id); err != nil {
		return nil, err
	}
	skill, err := s.cache.GetOrLoad(id, func() (models.Skill, error) {
		loaded, err := s.skillRepo.GetByID(id)
		if err != nil {
			return models.Skill{}, err
		}
		return *loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// GetSkillsByCategory retrieves the skills of a category
func (s *SkillService) GetSkillsByCategory(category string) ([]*models.Skill, error) {
	return s.skillRepo.GetByCategory(category)
}

// GetCategories lists the distinct skill categories
func (s *SkillService) GetCategories() ([]string, error) {
	return s.skillRepo.GetCategories()
}

// SearchSkills finds skills by name fragment
func (s *SkillService) SearchSkills(name string) ([]*models.Skill, error) {
	return s.skillRepo.SearchByName(strings.TrimSpace(name))
}

// CreateSkill creates a skill, rejecting duplicate names
func (s *SkillService) CreateSkill(req *models.SkillRequest) (*models.Skill, error) {
	skill := models.NewSkill(req.Name, req.Category)
	if err := skill.Validate(); err != nil {
		return nil, err
	}

	if err := s.skillRepo.Create(skill); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewStateError("skill %q already exists", skill.Name)
		}
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return skill, nil
}

// UpdateSkill renames or recategorizes a skill
func (s *SkillService) UpdateSkill(id string, req *models.SkillRequest) (*models.Skill, error) {
	if err := validateID("Skill", id); err != nil {
		return nil, err
	}
	skill, err := s.skillRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	skill.Name = strings.TrimSpace(req.Name)
	if category := strings.TrimSpace(req.Category); category != "" {
		skill.Category = category
	}
	if err := skill.Validate(); err != nil {
		return nil, err
	}

	if err := s.skillRepo.Update(skill); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewStateError("skill %q already exists", skill.Name)
		}
		return nil, err
	}
	s.cache.Invalidate(id)
	return skill, nil
}

// DeleteSkill deletes a skill and its links
func (s *SkillService) DeleteSkill(id string) error {
	if err := validateID("Skill", id); err != nil {
		return err
	}
	if err := s.skillRepo.Delete(id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}
