package handlers

import (
	"net/http"

	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	baseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{baseHandler: newBase(), authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	response, err := h.authService.Register(req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error during registration")
		return
	}

	h.Helper.SendCreated(c, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	response, err := h.authService.Login(req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error during login")
		return
	}

	h.Helper.SendSuccess(c, response)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Access token required")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching profile")
		return
	}

	h.Helper.SendSuccess(c, user)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	response, err := h.authService.ForgotPassword(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error during password reset")
		return
	}

	h.Helper.SendSuccess(c, response)
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	user, err := h.authService.VerifyResetToken(c.Param("token"))
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error during token verification")
		return
	}

	h.Helper.SendSuccess(c, gin.H{
		"message": "Reset token is valid",
		"success": true,
		"email":   user.Email,
		"name":    user.Name,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Param("token"), req); err != nil {
		h.Helper.SendServiceError(c, err, "Server error during password reset")
		return
	}

	h.Helper.SendSuccess(c, gin.H{
		"message": "Password has been reset successfully. You can now login with your new password.",
		"success": true,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Access token required")
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	if err := h.authService.ChangePassword(userID, req); err != nil {
		h.Helper.SendServiceError(c, err, "Server error during password change")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully", "success": true})
}
