package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"chamber-cms/cache"
	"chamber-cms/handlers"
	"chamber-cms/middleware"
	"chamber-cms/realtime"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

// Public list lifetimes, used for both Cache-Control and the response cache.
const (
	noticesMaxAge = 5 * time.Minute
	newsMaxAge    = 5 * time.Minute
	galleryMaxAge = 10 * time.Minute
	filesMaxAge   = 24 * time.Hour
)

// RateLimits holds the per-IP request budgets.
type RateLimits struct {
	Auth       int
	AuthWindow time.Duration
	API        int
	APIWindow  time.Duration
}

// FilePaths resolves a stored upload name to its location on disk.
type FilePaths interface {
	Path(name string) (string, error)
}

type Deps struct {
	AppName        string
	AllowedOrigins []string
	MaxUploadSize  int64
	RateLimits     RateLimits
	Logger         *slog.Logger

	Tokens  *services.TokenManager
	Auth    services.AuthService
	Users   services.UserService
	Notices services.NoticeService
	News    services.NewsService
	Gallery services.GalleryService
	Forms   services.FormService
	Email   handlers.EmailProviders
	Files   FilePaths
	Cache   cache.Cache
	Hub     *realtime.Hub
}

// New builds the HTTP engine with every route mounted.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.Logger != nil {
		r.Use(middleware.RequestLogger(d.Logger))
	}
	r.Use(middleware.CORS(d.AllowedOrigins...))
	if d.MaxUploadSize > 0 {
		r.MaxMultipartMemory = d.MaxUploadSize
	}

	authHandler := handlers.NewAuthHandler(d.Auth)
	adminHandler := handlers.NewAdminHandler(d.Users)
	noticeHandler := handlers.NewNoticeHandler(d.Notices)
	newsHandler := handlers.NewNewsHandler(d.News)
	galleryHandler := handlers.NewGalleryHandler(d.Gallery)
	formHandler := handlers.NewFormHandler(d.Forms)
	systemHandler := handlers.NewSystemHandler(d.AppName, d.Email)

	authenticate := middleware.Authenticate(d.Tokens)
	requireAdmin := middleware.RequireAdmin()
	adminOnly := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{authenticate, requireAdmin, h}
	}

	r.GET("/", systemHandler.Index)
	r.GET("/favicon.ico", systemHandler.Favicon)

	if d.Hub != nil {
		ws := realtime.NewHandler(d.Hub, func(token string) (bool, error) {
			claims, err := d.Tokens.Parse(token)
			if err != nil {
				return false, err
			}
			return claims.IsAdmin(), nil
		}, d.AllowedOrigins...)
		r.GET("/ws", ws.ServeWS)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(d.RateLimits.API, d.RateLimits.APIWindow,
		"Too many requests from this IP, please try again later."))
	{
		api.GET("/health", systemHandler.Health)
		api.GET("/services/status", systemHandler.ServicesStatus)
		api.GET("/files/:filename", serveFile(d.Files))

		authLimit := middleware.RateLimit(d.RateLimits.Auth, d.RateLimits.AuthWindow,
			"Too many authentication attempts, please try again later.")
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimit, authHandler.Register)
			auth.POST("/login", authLimit, authHandler.Login)
			auth.POST("/forgot-password", authLimit, authHandler.ForgotPassword)
			auth.GET("/verify-reset-token/:token", authHandler.VerifyResetToken)
			auth.POST("/reset-password/:token", authLimit, authHandler.ResetPassword)
			auth.GET("/profile", authenticate, authHandler.GetProfile)
			auth.POST("/change-password", authenticate, authHandler.ChangePassword)
		}

		notices := api.Group("/notices")
		{
			notices.GET("", middleware.ResponseCache(d.Cache, services.NoticesCachePrefix, noticesMaxAge), noticeHandler.GetNotices)
			notices.GET("/admin", adminOnly(noticeHandler.GetAllNotices)...)
			notices.POST("", adminOnly(noticeHandler.CreateNotice)...)
			notices.PUT("/:id", adminOnly(noticeHandler.UpdateNotice)...)
			notices.DELETE("/:id", adminOnly(noticeHandler.DeleteNotice)...)
		}

		news := api.Group("/news")
		{
			news.GET("", middleware.ResponseCache(d.Cache, services.NewsCachePrefix, newsMaxAge), newsHandler.GetNews)
			news.GET("/admin", adminOnly(newsHandler.GetAllNews)...)
			news.POST("", adminOnly(newsHandler.CreateNews)...)
			news.PUT("/:id", adminOnly(newsHandler.UpdateNews)...)
			news.DELETE("/:id", adminOnly(newsHandler.DeleteNews)...)
		}

		gallery := api.Group("/gallery")
		{
			gallery.GET("", middleware.ResponseCache(d.Cache, services.GalleryCachePrefix, galleryMaxAge), galleryHandler.GetImages)
			gallery.GET("/admin", adminOnly(galleryHandler.GetAllImages)...)
			gallery.POST("/upload", adminOnly(galleryHandler.UploadImage)...)
			gallery.PUT("/:id", adminOnly(galleryHandler.UpdateImage)...)
			gallery.DELETE("/:id", adminOnly(galleryHandler.DeleteImage)...)
		}

		forms := api.Group("/forms")
		{
			forms.POST("/submit", formHandler.Submit)
			forms.POST("/submit-with-file", formHandler.SubmitWithFile)
			forms.GET("/submissions", adminOnly(formHandler.GetSubmissions)...)
			forms.DELETE("/submissions/:id", adminOnly(formHandler.DeleteSubmission)...)
		}

		users := api.Group("/admin")
		users.Use(authenticate, requireAdmin)
		{
			fresh := middleware.RequireFreshAdmin(d.Auth)
			users.GET("/users", fresh, adminHandler.ListAdmins)
			users.POST("/users", fresh, adminHandler.CreateAdmin)
			users.DELETE("/users/:id", fresh, adminHandler.DeleteAdmin)
			users.PUT("/profile", adminHandler.UpdateProfile)
		}
	}

	return r
}

func serveFile(files FilePaths) gin.HandlerFunc {
	cacheControl := fmt.Sprintf("public, max-age=%d", int(filesMaxAge.Seconds()))
	return func(c *gin.Context) {
		if files == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		path, err := files.Path(c.Param("filename"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		c.Header("Cache-Control", cacheControl)
		c.File(path)
	}
}
