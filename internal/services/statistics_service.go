package services

import (
	"sort"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/logger"
)

const (
	topSkillCount        = 3
	leastUsedThreshold   = 3
	leastUsedProjectSize = 5
	recentActivityDays   = 7
)

// StatisticsService derives read-only aggregates; it never writes
type StatisticsService struct {
	clock
	collaboratorRepo *repositories.CollaboratorRepository
	projectRepo      *repositories.ProjectRepository
	assignmentRepo   *repositories.AssignmentRepository
	skillRepo        *repositories.SkillRepository
}

func NewStatisticsService(
	collaboratorRepo *repositories.CollaboratorRepository,
	projectRepo *repositories.ProjectRepository,
	assignmentRepo *repositories.AssignmentRepository,
	skillRepo *repositories.SkillRepository,
) *StatisticsService {
	return &StatisticsService{
		clock:            clock{Now: time.Now},
		collaboratorRepo: collaboratorRepo,
		projectRepo:      projectRepo,
		assignmentRepo:   assignmentRepo,
		skillRepo:        skillRepo,
	}
}

// CollaboratorStatistics counts active collaborators by status and builds
// the skill histogram
func (s *StatisticsService) CollaboratorStatistics() (*models.CollaboratorStatistics, error) {
	byStatus, err := s.collaboratorRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	active, _, err := s.collaboratorRepo.CountByActive()
	if err != nil {
		return nil, err
	}

	stats := &models.CollaboratorStatistics{
		Total:     active,
		Available: byStatus[models.CollaboratorAvailable],
		OnMission: byStatus[models.CollaboratorOnMission],
		OnLeave:   byStatus[models.CollaboratorOnLeave],
	}
	if sum := stats.Available + stats.OnMission + stats.OnLeave; sum != stats.Total {
		logger.Component("statistics").WithFields(map[string]interface{}{
			"active":        stats.Total,
			"status_sum":    sum,
			"status_counts": byStatus,
		}).Warn("Collaborator status counts do not add up to the active total")
	}

	counts, err := s.skillRepo.CountByActiveCollaborators()
	if err != nil {
		return nil, err
	}
	stats.SkillCounts = make(map[string]int, len(counts))
	for _, c := range counts {
		stats.SkillCounts[c.Name] = c.Count
	}
	stats.TopSkills = topSkills(counts, topSkillCount)
	stats.LeastUsedSkills = leastUsedSkills(counts, leastUsedThreshold, 0)
	return stats, nil
}

// TopSkills returns the n most common skills among active collaborators
func (s *StatisticsService) TopSkills(n int) ([]models.SkillCount, error) {
	counts, err := s.skillRepo.CountByActiveCollaborators()
	if err != nil {
		return nil, err
	}
	return topSkills(counts, n), nil
}

// LeastUsedSkills returns up to n skills held by fewer than three active collaborators
func (s *StatisticsService) LeastUsedSkills(n int) ([]models.SkillCount, error) {
	counts, err := s.skillRepo.CountByActiveCollaborators()
	if err != nil {
		return nil, err
	}
	return leastUsedSkills(counts, leastUsedThreshold, n), nil
}

// ProjectStatistics counts projects and lists the least required skills
func (s *StatisticsService) ProjectStatistics() (*models.ProjectStatistics, error) {
	projects, err := s.projectRepo.GetAll()
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &models.ProjectStatistics{Total: len(projects)}
	for _, p := range projects {
		if p.Active {
			stats.Active++
			if p.Status != models.ProjectCompleted && p.IsPastDue(now) {
				stats.Critical++
			}
		}
		if p.Status == models.ProjectCompleted {
			stats.Completed++
		}
	}

	counts, err := s.skillRepo.CountByProjects()
	if err != nil {
		return nil, err
	}
	sortSkillCounts(counts, true)
	if len(counts) > leastUsedProjectSize {
		counts = counts[:leastUsedProjectSize]
	}
	stats.LeastUsedSkills = counts
	return stats, nil
}

// CollaboratorStatusStatistics counts active and inactive collaborators
func (s *StatisticsService) CollaboratorStatusStatistics() (*models.StatusStatistics, error) {
	active, inactive, err := s.collaboratorRepo.CountByActive()
	if err != nil {
		return nil, err
	}
	return &models.StatusStatistics{Total: active + inactive, Active: active, Inactive: inactive}, nil
}

// ProjectStatusStatistics counts active and inactive projects
func (s *StatisticsService) ProjectStatusStatistics() (*models.StatusStatistics, error) {
	active, inactive, err := s.projectRepo.CountByActive()
	if err != nil {
		return nil, err
	}
	return &models.StatusStatistics{Total: active + inactive, Active: active, Inactive: inactive}, nil
}

// Dashboard builds the home page rollup
func (s *StatisticsService) Dashboard() (*models.Dashboard, error) {
	projects, err := s.projectRepo.GetAll()
	if err != nil {
		return nil, err
	}
	activeCollaborators, _, err := s.collaboratorRepo.CountByActive()
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.GetAll()
	if err != nil {
		return nil, err
	}

	now := s.now()
	since := now.AddDate(0, 0, -recentActivityDays)
	dashboard := &models.Dashboard{ActiveCollaborators: activeCollaborators}

	var progressSum float64
	progressCount := 0
	for _, p := range projects {
		if p.Active {
			dashboard.ActiveProjects++
			if p.Status != models.ProjectCompleted && p.IsPastDue(now) {
				dashboard.OverdueProjects++
			}
		}
		if !p.UpdatedAt.Before(since) {
			dashboard.RecentlyUpdatedProjects++
		}
		if p.Status != models.ProjectCancelled {
			progressSum += p.Progress
			progressCount++
		}
	}
	if progressCount > 0 {
		dashboard.AverageProgress = progressSum / float64(progressCount)
	}

	for _, a := range assignments {
		if !a.CreatedAt.Before(since) {
			dashboard.RecentAssignments++
		}
	}
	return dashboard, nil
}

func topSkills(counts []models.SkillCount, n int) []models.SkillCount {
	sorted := append([]models.SkillCount(nil), counts...)
	sortSkillCounts(sorted, false)
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func leastUsedSkills(counts []models.SkillCount, threshold, n int) []models.SkillCount {
	least := []models.SkillCount{}
	for _, c := range counts {
		if c.Count < threshold {
			least = append(least, c)
		}
	}
	sortSkillCounts(least, true)
	if n > 0 && len(least) > n {
		least = least[:n]
	}
	return least
}

// sortSkillCounts orders by count, then by name for stable output
func sortSkillCounts(counts []models.SkillCount, ascending bool) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			if ascending {
				return counts[i].Count < counts[j].Count
			}
			return counts[i].Count > counts[j].Count
		}
		return strings.ToLower(counts[i].Name) < strings.ToLower(counts[j].Name)
	})
}
