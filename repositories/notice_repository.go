package repositories

import (
	"chamber-cms/models"

	"gorm.io/gorm"
)

type NoticeRepository interface {
	Create(notice *models.Notice) error
	GetByID(id uint) (*models.Notice, error)
	List(activeOnly bool) ([]models.Notice, error)
	Update(id uint, fields map[string]interface{}) (*models.Notice, error)
	Delete(id uint) (int64, error)
	AttachedFiles() ([]string, error)
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(notice *models.Notice) error {
	return r.db.Create(notice).Error
}

func (r *noticeRepository) GetByID(id uint) (*models.Notice, error) {
	var notice models.Notice
	err := r.db.First(&notice, id).Error
	return &notice, err
}

func (r *noticeRepository) List(activeOnly bool) ([]models.Notice, error) {
	notices := []models.Notice{}
	query := r.db.Model(&models.Notice{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at desc").Order("id desc").Find(&notices).Error
	return notices, err
}

func (r *noticeRepository) Update(id uint, fields map[string]interface{}) (*models.Notice, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&models.Notice{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

func (r *noticeRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.Notice{}, id)
	return res.RowsAffected, res.Error
}

// AttachedFiles lists the stored filenames of every notice PDF.
func (r *noticeRepository) AttachedFiles() ([]string, error) {
	var names []string
	err := r.db.Model(&models.Notice{}).Where("pdf_filename <> ''").Pluck("pdf_filename", &names).Error
	return names, err
}
