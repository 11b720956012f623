package app

import (
	"fmt"
	"os"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Fixtures is a YAML document of demo data
type Fixtures struct {
	Skills []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
	} `yaml:"skills"`
	Collaborators []struct {
		Name            string   `yaml:"name"`
		Email           string   `yaml:"email"`
		Phone           string   `yaml:"phone"`
		Role            string   `yaml:"role"`
		Grade           string   `yaml:"grade"`
		ExperienceYears int      `yaml:"experience_years"`
		Status          string   `yaml:"status"`
		Skills          []string `yaml:"skills"`
	} `yaml:"collaborators"`
	Projects []struct {
		Name           string   `yaml:"name"`
		Description    string   `yaml:"description"`
		Client         string   `yaml:"client"`
		ProjectManager string   `yaml:"project_manager"`
		StartDate      string   `yaml:"start_date"`
		EndDate        string   `yaml:"end_date"`
		TeamSize       int      `yaml:"team_size"`
		Status         string   `yaml:"status"`
		Priority       string   `yaml:"priority"`
		RequiredSkills []string `yaml:"required_skills"`
	} `yaml:"projects"`
	Assignments []struct {
		Collaborator string `yaml:"collaborator"` // email
		Project      string `yaml:"project"`      // name
		Role         string `yaml:"role"`
		Notes        string `yaml:"notes"`
	} `yaml:"assignments"`
}

// SeedResult counts what a seed created
type SeedResult struct {
	Skills        int `json:"skills"`
	Collaborators int `json:"collaborators"`
	Projects      int `json:"projects"`
	Assignments   int `json:"assignments"`
}

// LoadFixtures reads a fixtures file
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixtures(data)
}

// ParseFixtures parses fixtures from raw YAML bytes
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid fixtures yaml: %w", err)
	}
	return &f, nil
}

// Seed loads fixtures through the services so every business rule applies.
// Assignments reference collaborators by email and projects by name.
func (a *App) Seed(f *Fixtures) (*SeedResult, error) {
	s := a.Services
	result := &SeedResult{}

	// A skill without a category is matched by name or created as General
	for _, sk := range f.Skills {
		var err error
		if sk.Category == "" {
			_, err = s.Skills.FindOrCreate(sk.Name)
		} else {
			_, err = s.Skills.CreateSkill(&models.SkillRequest{Name: sk.Name, Category: sk.Category})
		}
		if err != nil {
			return result, fmt.Errorf("skill %q: %w", sk.Name, err)
		}
		result.Skills++
	}

	collaboratorIDs := make(map[string]string)
	for _, c := range f.Collaborators {
		created, err := s.Collaborators.CreateCollaborator(&models.CollaboratorRequest{
			Name:            c.Name,
			Email:           c.Email,
			Phone:           c.Phone,
			Role:            c.Role,
			Grade:           c.Grade,
			ExperienceYears: c.ExperienceYears,
			Status:          models.CollaboratorStatus(c.Status),
			Skills:          c.Skills,
		})
		if err != nil {
			return result, fmt.Errorf("collaborator %q: %w", c.Email, err)
		}
		collaboratorIDs[c.Email] = created.ID.String()
		result.Collaborators++
	}

	projectIDs := make(map[string]string)
	for _, p := range f.Projects {
		created, err := s.Projects.CreateProject(&models.ProjectRequest{
			Name:           p.Name,
			Description:    p.Description,
			Client:         p.Client,
			ProjectManager: p.ProjectManager,
			StartDate:      p.StartDate,
			EndDate:        p.EndDate,
			TeamSize:       p.TeamSize,
			Status:         models.ProjectStatus(p.Status),
			Priority:       models.ProjectPriority(p.Priority),
			RequiredSkills: p.RequiredSkills,
		})
		if err != nil {
			return result, fmt.Errorf("project %q: %w", p.Name, err)
		}
		projectIDs[p.Name] = created.ID.String()
		result.Projects++
	}

	for _, as := range f.Assignments {
		collaboratorID, ok := collaboratorIDs[as.Collaborator]
		if !ok {
			return result, fmt.Errorf("assignment references unknown collaborator %q", as.Collaborator)
		}
		projectID, ok := projectIDs[as.Project]
		if !ok {
			return result, fmt.Errorf("assignment references unknown project %q", as.Project)
		}
		_, err := s.Assignments.CreateAssignment(&models.AssignmentRequest{
			CollaboratorID: collaboratorID,
			ProjectID:      projectID,
			Role:           as.Role,
			Notes:          as.Notes,
		})
		if err != nil {
			return result, fmt.Errorf("assignment %s -> %s: %w", as.Collaborator, as.Project, err)
		}
		result.Assignments++
	}

	logger.Component("seed").WithField("skills", result.Skills).
		WithField("collaborators", result.Collaborators).
		WithField("projects", result.Projects).
		WithField("assignments", result.Assignments).
		Info("Fixtures loaded")
	return result, nil
}
