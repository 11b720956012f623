package handlers

import (
	"net/http"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	items, err := h.userService.GetAllUsers()
	respondList(c, items, err)
}

func (h *UserHandler) Get(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	item, err := h.userService.GetUserForPrincipal(principal, c.Param("id"))
	respondItem(c, item, err)
}

func (h *UserHandler) ByEmail(c *gin.Context) {
	item, err := h.userService.GetUserByEmail(c.Param("email"))
	respondItem(c, item, err)
}

func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	item, err := h.userService.GetUserByID(principal.UserID.String())
	respondItem(c, item, err)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req models.UserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.CreateUser(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req models.UserRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.userService.UpdateUser(principal, c.Param("id"), &req)
	respondItem(c, item, err)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req models.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.userService.UpdateUserRole(c.Param("id"), req.Role)
	respondItem(c, item, err)
}

func (h *UserHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(principal, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
