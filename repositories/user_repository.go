package repositories

import (
	"time"

	"chamber-cms/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetToken(tokenHash string, now time.Time) (*models.User, error)
	ListByRole(role models.UserRole) ([]models.User, error)
	EmailTakenByOther(email string, id uint) (bool, error)
	Update(id uint, fields map[string]interface{}) error
	SetResetToken(id uint, tokenHash string, expires time.Time) error
	ResetPassword(tokenHash, passwordHash string, now time.Time) (int64, error)
	PurgeExpiredResetTokens(now time.Time) (int64, error)
	Delete(id uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

// GetByEmail expects an already normalized (trimmed, lower-cased) address.
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).
		First(&user).Error
	return &user, err
}

func (r *userRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", role).Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *userRepository) EmailTakenByOther(email string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Update(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SetResetToken(id uint, tokenHash string, expires time.Time) error {
	return r.Update(id, map[string]interface{}{
		"reset_password_token":   tokenHash,
		"reset_password_expires": expires,
	})
}

// ResetPassword swaps the password and clears the reset token in a single
// conditional UPDATE, so a token can be redeemed at most once.
func (r *userRepository) ResetPassword(tokenHash, passwordHash string, now time.Time) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).
		Updates(map[string]interface{}{
			"password":               passwordHash,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
			"updated_at":             now,
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) PurgeExpiredResetTokens(now time.Time) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("reset_password_expires IS NOT NULL AND reset_password_expires <= ?", now).
		Updates(map[string]interface{}{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.User{}, id)
	return res.RowsAffected, res.Error
}
