package repositories

import (
	"chamber-cms/models"

	"gorm.io/gorm"
)

type FormRepository interface {
	Create(submission *models.FormSubmission) error
	GetByID(id uint) (*models.FormSubmission, error)
	List() ([]models.FormSubmission, error)
	Delete(id uint) (int64, error)
	AttachedFiles() ([]string, error)
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) Create(submission *models.FormSubmission) error {
	return r.db.Create(submission).Error
}

func (r *formRepository) GetByID(id uint) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	err := r.db.First(&submission, id).Error
	return &submission, err
}

func (r *formRepository) List() ([]models.FormSubmission, error) {
	submissions := []models.FormSubmission{}
	err := r.db.Order("submitted_at desc").Order("id desc").Find(&submissions).Error
	return submissions, err
}

func (r *formRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.FormSubmission{}, id)
	return res.RowsAffected, res.Error
}

func (r *formRepository) AttachedFiles() ([]string, error) {
	var names []string
	err := r.db.Model(&models.FormSubmission{}).Where("pdf_filename <> ''").Pluck("pdf_filename", &names).Error
	return names, err
}
