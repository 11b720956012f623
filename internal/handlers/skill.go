package handlers

import (
	"net/http"
	"strconv"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillService *services.SkillService
}

func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

func (h *SkillHandler) List(c *gin.Context) {
	items, err := h.skillService.GetAllSkills()
	respondList(c, items, err)
}

func (h *SkillHandler) Get(c *gin.Context) {
	item, err := h.skillService.GetSkillByID(c.Param("id"))
	respondItem(c, item, err)
}

func (h *SkillHandler) ByCategory(c *gin.Context) {
	items, err := h.skillService.GetSkillsByCategory(c.Param("category"))
	respondList(c, items, err)
}

func (h *SkillHandler) Categories(c *gin.Context) {
	items, err := h.skillService.GetCategories()
	respondList(c, items, err)
}

func (h *SkillHandler) Search(c *gin.Context) {
	items, err := h.skillService.SearchSkills(c.Query("name"))
	respondList(c, items, err)
}

// Suggest lists existing skills resembling ?name=
func (h *SkillHandler) Suggest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	items, err := h.skillService.SuggestSkills(c.Query("name"), limit)
	respondList(c, items, err)
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req models.SkillRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.skillService.CreateSkill(&req)
	respondItem(c, item, err)
}

func (h *SkillHandler) Update(c *gin.Context) {
	var req models.SkillRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.skillService.UpdateSkill(c.Param("id"), &req)
	respondItem(c, item, err)
}

func (h *SkillHandler) Delete(c *gin.Context) {
	if err := h.skillService.DeleteSkill(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
