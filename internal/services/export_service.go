package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService renders spreadsheet reports
type ExportService struct {
	collaboratorRepo *repositories.CollaboratorRepository
	projectRepo      *repositories.ProjectRepository
	assignmentRepo   *repositories.AssignmentRepository
}

func NewExportService(
	collaboratorRepo *repositories.CollaboratorRepository,
	projectRepo *repositories.ProjectRepository,
	assignmentRepo *repositories.AssignmentRepository,
) *ExportService {
	return &ExportService{
		collaboratorRepo: collaboratorRepo,
		projectRepo:      projectRepo,
		assignmentRepo:   assignmentRepo,
	}
}

var collaboratorHeader = []interface{}{"Name", "Email", "Phone", "Role", "Grade", "Experience (years)", "Status", "Active", "Skills"}

var projectHeader = []interface{}{"Name", "Client", "Project Manager", "Start Date", "End Date", "Status", "Priority", "Progress (%)", "Team", "Team Size", "Active", "Required Skills"}

// WriteCollaboratorsReport writes every collaborator as an xlsx workbook
func (s *ExportService) WriteCollaboratorsReport(w io.Writer) error {
	collaborators, err := s.collaboratorRepo.GetAll()
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(collaborators))
	for _, c := range collaborators {
		rows = append(rows, []interface{}{
			c.Name,
			c.Email,
			c.Phone,
			c.Role,
			c.Grade,
			c.ExperienceYears,
			string(c.Status),
			yesNo(c.Active),
			strings.Join(models.SkillNames(c.Skills), ", "),
		})
	}
	return writeWorkbook(w, "Collaborators", collaboratorHeader, rows)
}

// WriteProjectsReport writes every project with its staffing as an xlsx workbook
func (s *ExportService) WriteProjectsReport(w io.Writer) error {
	projects, err := s.projectRepo.GetAll()
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(projects))
	for _, p := range projects {
		count, err := s.assignmentRepo.CountByProject(p.ID.String())
		if err != nil {
			return err
		}
		endDate := ""
		if p.EndDate != nil {
			endDate = p.EndDate.Format(models.DateLayout)
		}
		rows = append(rows, []interface{}{
			p.Name,
			p.Client,
			p.ProjectManager,
			p.StartDate.Format(models.DateLayout),
			endDate,
			string(p.Status),
			string(p.Priority),
			p.Progress,
			count,
			p.TeamSize,
			yesNo(p.Active),
			strings.Join(models.SkillNames(p.RequiredSkills), ", "),
		})
	}
	return writeWorkbook(w, "Projects", projectHeader, rows)
}

func writeWorkbook(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s report: %w", strings.ToLower(sheet), err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
