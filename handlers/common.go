package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"chamber-cms/middleware"

	"github.com/gin-gonic/gin"
)

// parseID reads the :id path parameter. A malformed id is answered with 400.
func (h *baseHandler) parseID(c *gin.Context, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.Helper.SendBadRequest(c, "Invalid "+resource+" id")
		return 0, false
	}
	return uint(id), true
}

// optionalFile returns the named multipart file, or nil when the request is
// not multipart or carries no such part.
func (h *baseHandler) optionalFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, true
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid file upload")
		return nil, false
	}
	return fh, true
}

func callerName(c *gin.Context) string {
	if claims := middleware.CurrentClaims(c); claims != nil {
		return claims.Name
	}
	return ""
}

func callerEmail(c *gin.Context) string {
	if claims := middleware.CurrentClaims(c); claims != nil {
		return claims.Email
	}
	return ""
}

func callerID(c *gin.Context) (uint, bool) {
	if claims := middleware.CurrentClaims(c); claims != nil {
		return claims.UserID, true
	}
	return 0, false
}
