package handlers

import (
	"strconv"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// Recent lists recent maintenance job runs, filtered by ?type= and capped by ?limit=
func (h *JobHandler) Recent(c *gin.Context) {
	limit := 0
	if value := c.Query("limit"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			respondError(c, models.NewValidationError("limit", "limit must be a number"))
			return
		}
		limit = n
	}
	items, err := h.jobService.GetRecentJobs(models.JobType(c.Query("type")), limit)
	respondList(c, items, err)
}
