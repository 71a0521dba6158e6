package models

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ForgotPasswordResponse struct {
	Message     string `json:"message"`
	Success     bool   `json:"success"`
	EmailSent   bool   `json:"emailSent"`
	EmailMethod string `json:"emailMethod"`
	ResetURL    string `json:"resetUrl,omitempty"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// Notice payloads arrive either as JSON or as multipart forms carrying pdfFile.
type CreateNoticeRequest struct {
	Title    string `json:"title" form:"title" binding:"required"`
	Content  string `json:"content" form:"content" binding:"required"`
	Priority string `json:"priority" form:"priority"`
}

type UpdateNoticeRequest struct {
	Title    *string `json:"title" form:"title"`
	Content  *string `json:"content" form:"content"`
	Priority *string `json:"priority" form:"priority"`
	IsActive *bool   `json:"isActive" form:"isActive"`
}

type CreateNewsRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Category   string `json:"category"`
	ImageURL   string `json:"imageUrl"`
	IsFeatured bool   `json:"isFeatured"`
}

type UpdateNewsRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Category   *string `json:"category"`
	ImageURL   *string `json:"imageUrl"`
	IsActive   *bool   `json:"isActive"`
	IsFeatured *bool   `json:"isFeatured"`
}

type UploadGalleryImageRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	AltText     string `form:"altText"`
	Category    string `form:"category"`
	Order       string `form:"order"`
}

type UpdateGalleryImageRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AltText     *string `json:"altText"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"isActive"`
	Order       *int    `json:"order"`
}

type SubmitFormRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Phone    string `json:"phone" form:"phone" binding:"required"`
	Message  string `json:"message" form:"message" binding:"required"`
	Category string `json:"category" form:"category"`
	Address  string `json:"address" form:"address"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
}
