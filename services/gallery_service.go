package services

import (
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"chamber-cms/cache"
	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/repositories"
	"chamber-cms/storage"
)

// FilesURLPrefix is where stored uploads are served from.
const FilesURLPrefix = "/api/files/"

type GalleryService interface {
	Upload(req models.UploadGalleryImageRequest, image *multipart.FileHeader, uploadedBy string) (*models.GalleryImage, error)
	ListPublic() ([]models.GalleryImage, error)
	ListAll() ([]models.GalleryImage, error)
	Update(id uint, req models.UpdateGalleryImageRequest) (*models.GalleryImage, error)
	Delete(id uint) error
}

type galleryService struct {
	galleryRepo repositories.GalleryRepository
	files       FileStore
	optimizer   ImageOptimizer
	pub         publisher
}

func NewGalleryService(galleryRepo repositories.GalleryRepository, files FileStore, optimizer ImageOptimizer, c cache.Cache, events realtime.Broadcaster) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		files:       files,
		optimizer:   optimizer,
		pub:         publisher{cache: c, events: events, prefix: GalleryCachePrefix},
	}
}

func parseGalleryCategory(c string) (models.GalleryCategory, error) {
	category := models.GalleryCategory(strings.ToLower(strings.TrimSpace(c)))
	if category == "" {
		return models.GalleryMeeting, nil
	}
	if !category.Valid() {
		return "", models.Invalid("Invalid category. Must be one of: meeting, event, conference")
	}
	return category, nil
}

func (s *galleryService) Upload(req models.UploadGalleryImageRequest, image *multipart.FileHeader, uploadedBy string) (*models.GalleryImage, error) {
	if image == nil {
		return nil, models.Invalid("No image file provided")
	}
	title := sanitizePlain(req.Title)
	if title == "" {
		return nil, models.Invalid("Title is required")
	}
	description := sanitizeRich(req.Description)
	if description == "" {
		return nil, models.Invalid("Description is required")
	}
	altText := sanitizePlain(req.AltText)
	if altText == "" {
		return nil, models.Invalid("Alt text is required")
	}
	if strings.TrimSpace(uploadedBy) == "" {
		return nil, models.Invalid("User authentication is missing")
	}
	category, err := parseGalleryCategory(req.Category)
	if err != nil {
		return nil, err
	}
	order, err := strconv.Atoi(strings.TrimSpace(req.Order))
	if err != nil {
		order = 0
	}

	file, err := s.files.Save("image", image, storage.AllowImages)
	if err != nil {
		return nil, err
	}
	s.optimize(file.Filename)

	now := time.Now()
	galleryImage := &models.GalleryImage{
		Title:       title,
		Description: description,
		ImageURL:    FilesURLPrefix + file.Filename,
		AltText:     altText,
		Category:    category,
		UploadedBy:  uploadedBy,
		Order:       order,
		IsActive:    true,
		UploadedAt:  now,
	}
	if err := s.galleryRepo.Create(galleryImage); err != nil {
		s.files.DeleteQuietly(file.Filename)
		return nil, err
	}

	s.pub.changed("gallery-image-created", galleryImage)
	return galleryImage, nil
}

// optimize is best-effort: a failure keeps the file as uploaded.
func (s *galleryService) optimize(name string) {
	if s.optimizer == nil {
		return
	}
	path, err := s.files.Path(name)
	if err != nil {
		return
	}
	res, err := s.optimizer.Optimize(path)
	if err != nil {
		slog.Warn("image optimization failed, keeping original", "file", name, "error", err)
		return
	}
	slog.Debug("image optimized", "file", name, "format", res.Format,
		"width", res.Width, "height", res.Height, "before", res.SizeBefore, "after", res.SizeAfter)
}

func (s *galleryService) ListPublic() ([]models.GalleryImage, error) {
	return s.galleryRepo.List(true)
}

func (s *galleryService) ListAll() ([]models.GalleryImage, error) {
	return s.galleryRepo.List(false)
}

func (s *galleryService) Update(id uint, req models.UpdateGalleryImageRequest) (*models.GalleryImage, error) {
	if _, err := s.galleryRepo.GetByID(id); err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("Image not found")
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := sanitizePlain(*req.Title)
		if title == "" {
			return nil, models.Invalid("Title cannot be empty")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		description := sanitizeRich(*req.Description)
		if description == "" {
			return nil, models.Invalid("Description cannot be empty")
		}
		fields["description"] = description
	}
	if req.AltText != nil {
		altText := sanitizePlain(*req.AltText)
		if altText == "" {
			return nil, models.Invalid("Alt text cannot be empty")
		}
		fields["alt_text"] = altText
	}
	if req.Category != nil {
		category := models.GalleryCategory(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !category.Valid() {
			return nil, models.Invalid("Invalid category. Must be one of: meeting, event, conference")
		}
		fields["category"] = string(category)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Order != nil {
		fields["sort_order"] = *req.Order
	}

	image, err := s.galleryRepo.Update(id, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("Image not found")
		}
		return nil, err
	}

	s.pub.changed("gallery-image-updated", image)
	return image, nil
}

func (s *galleryService) Delete(id uint) error {
	image, err := s.galleryRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return models.NotFound("Image not found")
		}
		return err
	}

	n, err := s.galleryRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NotFound("Image not found")
	}

	if name := image.Filename(); name != "" {
		s.files.DeleteQuietly(name)
	}

	s.pub.changed("gallery-image-deleted", idPayload{ID: id})
	return nil
}
