package repositories

import (
	"chamber-cms/models"

	"gorm.io/gorm"
)

type GalleryRepository interface {
	Create(image *models.GalleryImage) error
	GetByID(id uint) (*models.GalleryImage, error)
	List(activeOnly bool) ([]models.GalleryImage, error)
	Update(id uint, fields map[string]interface{}) (*models.GalleryImage, error)
	Delete(id uint) (int64, error)
	ImageURLs() ([]string, error)
}

type galleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(image *models.GalleryImage) error {
	return r.db.Create(image).Error
}

func (r *galleryRepository) GetByID(id uint) (*models.GalleryImage, error) {
	var image models.GalleryImage
	err := r.db.First(&image, id).Error
	return &image, err
}

func (r *galleryRepository) List(activeOnly bool) ([]models.GalleryImage, error) {
	images := []models.GalleryImage{}
	query := r.db.Model(&models.GalleryImage{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("sort_order asc").Order("uploaded_at desc").Order("id desc").Find(&images).Error
	return images, err
}

func (r *galleryRepository) Update(id uint, fields map[string]interface{}) (*models.GalleryImage, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&models.GalleryImage{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

func (r *galleryRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.GalleryImage{}, id)
	return res.RowsAffected, res.Error
}

func (r *galleryRepository) ImageURLs() ([]string, error) {
	var urls []string
	err := r.db.Model(&models.GalleryImage{}).Pluck("image_url", &urls).Error
	return urls, err
}
