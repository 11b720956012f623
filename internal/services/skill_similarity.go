package services

import (
	"math"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/alimgiray/staffhub/internal/models"
)

// minSuggestionScore is the similarity below which a skill is not suggested
const minSuggestionScore = 0.6

// SkillSuggestion is an existing skill resembling a typed name
type SkillSuggestion struct {
	Skill *models.Skill `json:"skill"`
	Score float64       `json:"score"`
}

// SuggestSkills returns existing skills whose names resemble name, best
// match first. It catches near-duplicates such as "Kubernets" before they
// are created as new skills.
func (s *SkillService) SuggestSkills(name string, limit int) ([]SkillSuggestion, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("name", "Name is required")
	}
	if limit <= 0 {
		limit = 5
	}

	skills, err := s.skillRepo.GetAll()
	if err != nil {
		return nil, err
	}

	suggestions := []SkillSuggestion{}
	for _, skill := range skills {
		if score := nameSimilarity(name, skill.Name); score >= minSuggestionScore {
			suggestions = append(suggestions, SkillSuggestion{Skill: skill, Score: score})
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// nameSimilarity scores two names between 0 (unrelated) and 1 (same after
// normalization)
func nameSimilarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if slices.Equal(na, nb) {
		return 1.0
	}
	if len(na) == 0 || len(nb) == 0 {
		return 0.0
	}

	longest := float64(max(len(na), len(nb)))
	similarity := 1.0 - float64(levenshtein(na, nb))/longest

	// Partial matches: containment and shared prefix
	if strings.Contains(string(na), string(nb)) || strings.Contains(string(nb), string(na)) {
		similarity += 0.2
	}
	prefix := 0
	for prefix < min(len(na), len(nb)) && na[prefix] == nb[prefix] {
		prefix++
	}
	similarity += float64(prefix) / longest * 0.1

	return math.Min(1.0, similarity)
}

// normalizeName lowercases and keeps letters, digits, '+' and '#'. "Node.js"
// and "nodejs" collapse together while "C++" and "C#" stay distinct.
func normalizeName(name string) []rune {
	var out []rune
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			out = append(out, r)
		case r == '+' || r == '#':
			out = append(out, r)
		}
	}
	return out
}

// levenshtein is the edit distance between a and b using two rows
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
