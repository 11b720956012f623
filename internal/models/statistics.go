package models

type CollaboratorStatistics struct {
	Total           int            `json:"total"`
	Available       int            `json:"available"`
	OnMission       int            `json:"on_mission"`
	OnLeave         int            `json:"on_leave"`
	SkillCounts     map[string]int `json:"skill_counts"`
	TopSkills       []SkillCount   `json:"top_skills"`
	LeastUsedSkills []SkillCount   `json:"least_used_skills"`
}

type ProjectStatistics struct {
	Total           int          `json:"total"`
	Active          int          `json:"active"`
	Completed       int          `json:"completed"`
	Critical        int          `json:"critical"`
	LeastUsedSkills []SkillCount `json:"least_used_skills"`
}

type StatusStatistics struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

type Dashboard struct {
	ActiveProjects          int     `json:"active_projects"`
	ActiveCollaborators     int     `json:"active_collaborators"`
	RecentlyUpdatedProjects int     `json:"recently_updated_projects"`
	OverdueProjects         int     `json:"overdue_projects"`
	RecentAssignments       int     `json:"recent_assignments"`
	AverageProgress         float64 `json:"average_progress"`
}
