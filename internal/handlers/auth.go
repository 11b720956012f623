package handlers

import (
	"net/http"

	"github.com/alimgiray/staffhub/internal/middleware"
	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges credentials for a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken issues a new token for the caller
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	resp, err := h.authService.RefreshToken(principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout is stateless; clients drop their token
func (h *AuthHandler) Logout(c *gin.Context) {
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

// CheckAuth reports whether the request carries a valid token
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       principal.UserID,
		"email":         principal.Email,
		"role":          principal.Role,
	})
}

// Permissions returns what the caller's role may do on an entity
func (h *AuthHandler) Permissions(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.PermissionsFor(c.Param("entity"), principal.Role))
}

// UserAccess reports whether the caller may access a user profile
func (h *AuthHandler) UserAccess(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_access": services.CanAccessUser(principal, c.Param("userId"))})
}

// Me returns the caller's user record
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
