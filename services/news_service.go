package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"chamber-cms/cache"
	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/repositories"
)

const (
	minNewsTitleLength   = 3
	minNewsContentLength = 10
)

type NewsService interface {
	Create(req models.CreateNewsRequest, author string) (*models.News, error)
	ListPublic() ([]models.News, error)
	ListAll() ([]models.News, error)
	Update(id uint, req models.UpdateNewsRequest) (*models.News, error)
	Delete(id uint) error
}

type newsService struct {
	newsRepo repositories.NewsRepository
	pub      publisher
}

func NewNewsService(newsRepo repositories.NewsRepository, c cache.Cache, events realtime.Broadcaster) NewsService {
	return &newsService{
		newsRepo: newsRepo,
		pub:      publisher{cache: c, events: events, prefix: NewsCachePrefix},
	}
}

func validateNewsTitle(title string) error {
	if utf8.RuneCountInString(title) < minNewsTitleLength {
		return models.Invalid("Title must be at least %d characters long", minNewsTitleLength)
	}
	return nil
}

func validateNewsContent(content string) error {
	if utf8.RuneCountInString(content) < minNewsContentLength {
		return models.Invalid("Content must be at least %d characters long", minNewsContentLength)
	}
	return nil
}

func parseNewsCategory(c string) (models.NewsCategory, error) {
	category := models.NewsCategory(strings.ToLower(strings.TrimSpace(c)))
	if category == "" {
		return models.NewsBusiness, nil
	}
	if !category.Valid() {
		return "", models.Invalid("Invalid category. Must be one of: business, policy, event, announcement")
	}
	return category, nil
}

func (s *newsService) Create(req models.CreateNewsRequest, author string) (*models.News, error) {
	title := sanitizePlain(req.Title)
	content := sanitizeRich(req.Content)
	if title == "" || content == "" {
		return nil, models.Invalid("Title and content are required")
	}
	if err := validateNewsTitle(title); err != nil {
		return nil, err
	}
	if err := validateNewsContent(content); err != nil {
		return nil, err
	}
	category, err := parseNewsCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(author) == "" {
		author = "Admin"
	}

	news := &models.News{
		Title:       title,
		Content:     content,
		Category:    category,
		Author:      author,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		IsActive:    true,
		IsFeatured:  req.IsFeatured,
		PublishedAt: time.Now(),
	}
	if err := s.newsRepo.Create(news); err != nil {
		return nil, err
	}

	s.pub.changed("news-created", news)
	return news, nil
}

func (s *newsService) ListPublic() ([]models.News, error) {
	return s.newsRepo.List(true)
}

func (s *newsService) ListAll() ([]models.News, error) {
	return s.newsRepo.List(false)
}

func (s *newsService) Update(id uint, req models.UpdateNewsRequest) (*models.News, error) {
	if _, err := s.newsRepo.GetByID(id); err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("News article not found")
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := sanitizePlain(*req.Title)
		if title == "" {
			return nil, models.Invalid("Title cannot be empty")
		}
		if err := validateNewsTitle(title); err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if req.Content != nil {
		content := sanitizeRich(*req.Content)
		if content == "" {
			return nil, models.Invalid("Content cannot be empty")
		}
		if err := validateNewsContent(content); err != nil {
			return nil, err
		}
		fields["content"] = content
	}
	if req.Category != nil {
		category, err := parseNewsCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		fields["category"] = string(category)
	}
	if req.ImageURL != nil {
		fields["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}

	news, err := s.newsRepo.Update(id, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("News article not found")
		}
		return nil, err
	}

	s.pub.changed("news-updated", news)
	return news, nil
}

func (s *newsService) Delete(id uint) error {
	n, err := s.newsRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NotFound("News article not found")
	}

	s.pub.changed("news-deleted", idPayload{ID: id})
	return nil
}
