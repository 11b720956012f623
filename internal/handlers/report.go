package handlers

import (
	"bytes"
	"net/http"

	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	exportService *services.ExportService
}

func NewReportHandler(exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{exportService: exportService}
}

func (h *ReportHandler) Collaborators(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteCollaboratorsReport(&buf); err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "collaborators.xlsx", &buf)
}

func (h *ReportHandler) Projects(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteProjectsReport(&buf); err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "projects.xlsx", &buf)
}

// sendWorkbook buffers the workbook so a failed render still gets a JSON error
func sendWorkbook(c *gin.Context, filename string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
