package handlers

import (
	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	baseHandler
	galleryService services.GalleryService
}

func NewGalleryHandler(galleryService services.GalleryService) *GalleryHandler {
	return &GalleryHandler{baseHandler: newBase(), galleryService: galleryService}
}

func (h *GalleryHandler) UploadImage(c *gin.Context) {
	image, err := c.FormFile("image")
	if err != nil {
		h.Helper.SendBadRequest(c, "No image file provided")
		return
	}

	var req models.UploadGalleryImageRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	saved, err := h.galleryService.Upload(req, image, callerName(c))
	if err != nil {
		h.Helper.SendServiceError(c, err, "Internal server error")
		return
	}

	h.Helper.SendCreated(c, gin.H{"message": "Image uploaded successfully", "image": saved})
}

func (h *GalleryHandler) GetImages(c *gin.Context) {
	images, err := h.galleryService.ListPublic()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Internal server error")
		return
	}
	h.Helper.SendSuccess(c, images)
}

func (h *GalleryHandler) GetAllImages(c *gin.Context) {
	images, err := h.galleryService.ListAll()
	if err != nil {
		h.Helper.SendServiceError(c, err, "Internal server error")
		return
	}
	h.Helper.SendSuccess(c, images)
}

func (h *GalleryHandler) UpdateImage(c *gin.Context) {
	id, ok := h.parseID(c, "image")
	if !ok {
		return
	}

	var req models.UpdateGalleryImageRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendValidationError(c, err)
		return
	}

	image, err := h.galleryService.Update(id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err, "Internal server error")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Image updated successfully", "image": image})
}

func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	id, ok := h.parseID(c, "image")
	if !ok {
		return
	}

	if err := h.galleryService.Delete(id); err != nil {
		h.Helper.SendServiceError(c, err, "Internal server error")
		return
	}

	h.Helper.SendSuccess(c, gin.H{"message": "Image deleted successfully"})
}
