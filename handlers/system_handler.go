package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EmailProviders reports the configured delivery providers in the order
// they are tried.
type EmailProviders interface {
	Providers() []string
}

type SystemHandler struct {
	baseHandler
	email   EmailProviders
	appName string
}

func NewSystemHandler(appName string, email EmailProviders) *SystemHandler {
	return &SystemHandler{baseHandler: newBase(), email: email, appName: appName}
}

func (h *SystemHandler) Health(c *gin.Context) {
	h.Helper.SendSuccess(c, gin.H{
		"message":   h.appName + " API is running!",
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) ServicesStatus(c *gin.Context) {
	providers := []string{}
	if h.email != nil {
		providers = h.email.Providers()
	}
	h.Helper.SendSuccess(c, gin.H{
		"emailServices": gin.H{
			"configured": len(providers) > 0,
			"providers":  providers,
		},
		"message": "Service status retrieved successfully",
	})
}

func (h *SystemHandler) Index(c *gin.Context) {
	h.Helper.SendSuccess(c, gin.H{
		"message": h.appName + " - Backend API",
		"status":  "running",
		"version": "1.0.0",
		"endpoints": gin.H{
			"api":     "/api",
			"health":  "/api/health",
			"auth":    "/api/auth",
			"notices": "/api/notices",
			"gallery": "/api/gallery",
			"news":    "/api/news",
			"forms":   "/api/forms",
			"ws":      "/ws",
		},
	})
}

func (h *SystemHandler) Favicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
