package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSkillCategory = "General"

type Skill struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSkill creates a skill, falling back to the default category
func NewSkill(name, category string) *Skill {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultSkillCategory
	}
	return &Skill{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrSkillNameRequired
	}
	return nil
}

var (
	ErrSkillNameRequired = &ValidationError{Field: "name", Message: "Skill name is required"}
)

type SkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SkillCount is one bucket of a skill usage histogram
type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SkillNames returns the names of skills in order
func SkillNames(skills []*Skill) []string {
	names := make([]string, 0, len(skills))
	for _, skill := range skills {
		names = append(names, skill.Name)
	}
	return names
}
