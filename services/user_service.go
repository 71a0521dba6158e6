package services

import (
	"errors"

	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	ListAdmins() ([]models.User, error)
	CreateAdmin(req models.CreateAdminRequest) (*models.User, error)
	DeleteAdmin(callerID, id uint) error
	UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	events     realtime.Broadcaster
	bcryptCost int
}

func NewUserService(userRepo repositories.UserRepository, events realtime.Broadcaster, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{userRepo: userRepo, events: events, bcryptCost: bcryptCost}
}

func (s *userService) ListAdmins() ([]models.User, error) {
	return s.userRepo.ListByRole(models.RoleAdmin)
}

func (s *userService) CreateAdmin(req models.CreateAdminRequest) (*models.User, error) {
	name := sanitizePlain(req.Name)
	if name == "" {
		return nil, models.Invalid("Name, email, and password are required")
	}
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, models.Conflict("An account with this email already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, models.Invalid("Password must be at most 72 bytes long")
		}
		return nil, err
	}

	admin := &models.User{Name: name, Email: email, Password: string(hashed), Role: models.RoleAdmin}
	if err := s.userRepo.Create(admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.Conflict("An account with this email already exists")
		}
		return nil, err
	}
	return admin, nil
}

func (s *userService) DeleteAdmin(callerID, id uint) error {
	if callerID == id {
		return models.Invalid("You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return models.NotFound("Admin not found")
		}
		return err
	}
	if !user.IsAdmin() {
		return models.NotFound("Admin not found")
	}

	n, err := s.userRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NotFound("Admin not found")
	}
	return nil
}

func (s *userService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	name := sanitizePlain(req.Name)
	if name == "" {
		return nil, models.Invalid("Name and email are required")
	}
	email := normalizeEmail(req.Email)

	taken, err := s.userRepo.EmailTakenByOther(email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.Conflict("This email is already taken by another user")
	}

	if err := s.userRepo.Update(userID, map[string]interface{}{"name": name, "email": email}); err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("User not found")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.Conflict("This email is already taken by another user")
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("User not found")
		}
		return nil, err
	}

	if s.events != nil {
		s.events.Emit("admin-profile-updated", map[string]any{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"updatedAt": user.UpdatedAt,
		}, realtime.RoomAdmin)
	}
	return user, nil
}
