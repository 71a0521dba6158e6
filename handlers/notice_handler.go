package handlers

import (
	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	baseHandler
	noticeService services.NoticeService
}

func NewNoticeHandler(noticeService services.NoticeService) *NoticeHandler {
	return &NoticeHandler{baseHandler: newBase(), noticeService: noticeService}
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var req models.CreateNoticeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}
	pdf, ok := h.optionalFile(c, "pdfFile")
	if !ok {
		return
	}

	notice, err := h.noticeService.Create(req, callerEmail(c), pdf)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error creating notice")
		return
	}

	h.Helper.SendCreated(c, gin.H{"message": "Notice created successfully", "notice": notice})
}

func (h *NoticeHandler) GetNotices(c *gin.Context) {
	notices, err := h.noticeService.ListPublic()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching notices")
		return
	}
	h.Helper.SendSuccess(c, notices)
}

func (h *NoticeHandler) GetAllNotices(c *gin.Context) {
	notices, err := h.noticeService.ListAll()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching notices")
		return
	}
	h.Helper.SendSuccess(c, notices)
}

func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, ok := h.parseID(c, "notice")
	if !ok {
		return
	}

	var req models.UpdateNoticeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}
	pdf, ok := h.optionalFile(c, "pdfFile")
	if !ok {
		return
	}

	notice, err := h.noticeService.Update(id, req, pdf)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error updating notice")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Notice updated successfully", "notice": notice})
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, ok := h.parseID(c, "notice")
	if !ok {
		return
	}

	if err := h.noticeService.Delete(id); err != nil {
		h.Helper.SendServiceError(c, err, "Server error deleting notice")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Notice deleted successfully"})
}
