package repositories

import (
	"chamber-cms/models"

	"gorm.io/gorm"
)

// PublicNewsLimit caps the public news feed.
const PublicNewsLimit = 10

type NewsRepository interface {
	Create(news *models.News) error
	GetByID(id uint) (*models.News, error)
	List(activeOnly bool) ([]models.News, error)
	Update(id uint, fields map[string]interface{}) (*models.News, error)
	Delete(id uint) (int64, error)
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(news *models.News) error {
	return r.db.Create(news).Error
}

func (r *newsRepository) GetByID(id uint) (*models.News, error) {
	var news models.News
	err := r.db.First(&news, id).Error
	return &news, err
}

// List returns active articles capped to PublicNewsLimit, or every article
// when activeOnly is false.
func (r *newsRepository) List(activeOnly bool) ([]models.News, error) {
	news := []models.News{}
	query := r.db.Model(&models.News{})
	if activeOnly {
		query = query.Where("is_active = ?", true).Limit(PublicNewsLimit)
	}
	err := query.Order("published_at desc").Order("created_at desc").Order("id desc").Find(&news).Error
	return news, err
}

func (r *newsRepository) Update(id uint, fields map[string]interface{}) (*models.News, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&models.News{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

func (r *newsRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.News{}, id)
	return res.RowsAffected, res.Error
}
