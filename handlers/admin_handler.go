package handlers

import (
	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	baseHandler
	userService services.UserService
}

func NewAdminHandler(userService services.UserService) *AdminHandler {
	return &AdminHandler{baseHandler: newBase(), userService: userService}
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.userService.ListAdmins()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching admins")
		return
	}
	h.Helper.SendSuccess(c, admins)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	admin, err := h.userService.CreateAdmin(req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error creating admin")
		return
	}

	h.Helper.SendCreated(c, gin.H{"message": "Admin created successfully", "user": admin})
}

func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, ok := h.parseID(c, "user")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Access token required")
		return
	}

	if err := h.userService.DeleteAdmin(caller, id); err != nil {
		h.Helper.SendServiceError(c, err, "Server error deleting admin")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Admin deleted successfully"})
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Access token required")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(caller, req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error updating profile")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Profile updated successfully", "user": user})
}
