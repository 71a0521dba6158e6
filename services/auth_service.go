package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"chamber-cms/mailer"
	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// Mailer sends a message and reports which provider accepted it.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

type AuthConfig struct {
	BcryptCost int
	ClientURL  string
	// ResetLinkFallback puts the reset URL in the API response when no
	// email provider accepted the message.
	ResetLinkFallback bool
}

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error)
	VerifyResetToken(token string) (*models.User, error)
	ResetPassword(token string, req models.ResetPasswordRequest) error
	ChangePassword(userID uint, req models.ChangePasswordRequest) error
	EnsureBootstrapAdmin(email, password string) error
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *TokenManager
	mail     Mailer
	events   realtime.Broadcaster
	cfg      AuthConfig
}

func NewAuthService(userRepo repositories.UserRepository, tokens *TokenManager, mail Mailer, events realtime.Broadcaster, cfg AuthConfig) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{userRepo: userRepo, tokens: tokens, mail: mail, events: events, cfg: cfg}
}

func (s *authService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.Invalid("Password must be at most 72 bytes long")
	}
	return string(hashed), err
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	name := sanitizePlain(req.Name)
	if name == "" {
		return nil, models.Invalid("Name is required")
	}
	email := normalizeEmail(req.Email)

	// Check if user already exists
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, models.Conflict("User already exists with this email")
	} else if !isNotFound(err) {
		return nil, err
	}

	hashedPassword, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.Conflict("User already exists with this email")
		}
		return nil, err
	}

	return s.authResponse("User registered successfully", user)
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, models.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.Unauthorized("Invalid email or password")
	}

	now := time.Now()
	if err := s.userRepo.Update(user.ID, map[string]interface{}{"last_login": now}); err != nil {
		slog.Warn("recording last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	return s.authResponse("Login successful", user)
}

func (s *authService) authResponse(message string, user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Message: message, Token: token, User: user.Public()}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if isNotFound(err) {
		return nil, models.NotFound("User not found")
	}
	return user, err
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *authService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("No account found with this email address")
		}
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.userRepo.SetResetToken(user.ID, hashResetToken(token), time.Now().Add(resetTokenTTL)); err != nil {
		return nil, err
	}

	resetURL := strings.TrimRight(s.cfg.ClientURL, "/") + "/reset-password/" + token
	msg, err := mailer.ResetMessage(mail.Address{Name: user.Name, Address: user.Email}, resetURL)
	if err != nil {
		return nil, fmt.Errorf("rendering reset email: %w", err)
	}

	resp := &models.ForgotPasswordResponse{Success: true, EmailMethod: "none"}
	method, sendErr := s.mail.Send(ctx, msg)
	if sendErr == nil {
		resp.EmailSent = true
		resp.EmailMethod = method
		resp.Message = fmt.Sprintf("Password reset link has been sent to your email address via %s. Please check your inbox.", method)
		return resp, nil
	}

	slog.ErrorContext(ctx, "reset email delivery failed", "user_id", user.ID, "error", sendErr)
	if s.cfg.ResetLinkFallback {
		resp.ResetURL = resetURL
		resp.Message = "Password reset link generated. Please check below."
		return resp, nil
	}
	resp.Message = "We could not send the reset email right now. Please try again later or contact support."
	return resp, nil
}

func (s *authService) VerifyResetToken(token string) (*models.User, error) {
	user, err := s.userRepo.GetByResetToken(hashResetToken(token), time.Now())
	if err != nil {
		if isNotFound(err) {
			return nil, models.Invalid("Invalid or expired reset token")
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ResetPassword(token string, req models.ResetPasswordRequest) error {
	hashed, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}

	n, err := s.userRepo.ResetPassword(hashResetToken(token), hashed, time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		return models.Invalid("Invalid or expired reset token. Please request a new password reset.")
	}
	return nil
}

func (s *authService) ChangePassword(userID uint, req models.ChangePasswordRequest) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return models.Unauthorized("Current password is incorrect")
	}

	hashed, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	if err := s.userRepo.Update(user.ID, map[string]interface{}{"password": hashed, "updated_at": now}); err != nil {
		return err
	}

	if user.IsAdmin() && s.events != nil {
		s.events.Emit("admin-password-changed", map[string]any{"id": user.ID, "updatedAt": now}, realtime.RoomAdmin)
	}
	return nil
}

// EnsureBootstrapAdmin creates the bootstrap admin once. An existing
// account with that email is never modified.
func (s *authService) EnsureBootstrapAdmin(email, password string) error {
	email = normalizeEmail(email)
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		slog.Info("admin user already exists", "email", email)
		return nil
	} else if !isNotFound(err) {
		return err
	}

	hashed, err := s.hash(password)
	if err != nil {
		return err
	}
	admin := &models.User{Name: "Admin", Email: email, Password: hashed, Role: models.RoleAdmin}
	if err := s.userRepo.Create(admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	slog.Info("default admin user created", "email", email)
	return nil
}
