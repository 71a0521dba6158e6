package handlers

import (
	"mime/multipart"

	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	baseHandler
	formService services.FormService
}

func NewFormHandler(formService services.FormService) *FormHandler {
	return &FormHandler{baseHandler: newBase(), formService: formService}
}

// Submit accepts the JSON contact form.
func (h *FormHandler) Submit(c *gin.Context) {
	var req models.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}
	h.submit(c, req, nil)
}

// SubmitWithFile accepts the multipart form with an optional PDF.
func (h *FormHandler) SubmitWithFile(c *gin.Context) {
	var req models.SubmitFormRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}
	pdf, ok := h.optionalFile(c, "pdfFile")
	if !ok {
		return
	}
	h.submit(c, req, pdf)
}

func (h *FormHandler) submit(c *gin.Context, req models.SubmitFormRequest, pdf *multipart.FileHeader) {
	submission, err := h.formService.Submit(req, pdf)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error during form submission")
		return
	}

	h.Helper.SendCreated(c, gin.H{"message": "Form submitted successfully", "submission": submission})
}

func (h *FormHandler) GetSubmissions(c *gin.Context) {
	submissions, err := h.formService.List()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching submissions")
		return
	}
	h.Helper.SendSuccess(c, submissions)
}

func (h *FormHandler) DeleteSubmission(c *gin.Context) {
	id, ok := h.parseID(c, "submission")
	if !ok {
		return
	}

	if err := h.formService.Delete(id); err != nil {
		h.Helper.SendServiceError(c, err, "Server error deleting submission")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Submission deleted successfully"})
}
