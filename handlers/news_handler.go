package handlers

import (
	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	baseHandler
	newsService services.NewsService
}

func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{baseHandler: newBase(), newsService: newsService}
}

func (h *NewsHandler) CreateNews(c *gin.Context) {
	var req models.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	news, err := h.newsService.Create(req, callerName(c))
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error creating news")
		return
	}

	h.Helper.SendCreated(c, news)
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	news, err := h.newsService.ListPublic()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching news")
		return
	}
	h.Helper.SendSuccess(c, news)
}

func (h *NewsHandler) GetAllNews(c *gin.Context) {
	news, err := h.newsService.ListAll()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error fetching news")
		return
	}
	h.Helper.SendSuccess(c, news)
}

func (h *NewsHandler) UpdateNews(c *gin.Context) {
	id, ok := h.parseID(c, "news")
	if !ok {
		return
	}

	var req models.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	news, err := h.newsService.Update(id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Server error updating news")
		return
	}

	h.Helper.SendSuccess(c, news)
}

func (h *NewsHandler) DeleteNews(c *gin.Context) {
	id, ok := h.parseID(c, "news")
	if !ok {
		return
	}

	if err := h.newsService.Delete(id); err != nil {
		h.Helper.SendServiceError(c, err, "Server error deleting news")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "News article deleted successfully"})
}
