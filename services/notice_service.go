package services

import (
	"mime/multipart"
	"strings"

	"chamber-cms/cache"
	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/repositories"
	"chamber-cms/storage"
)

type NoticeService interface {
	Create(req models.CreateNoticeRequest, author string, pdf *multipart.FileHeader) (*models.Notice, error)
	ListPublic() ([]models.Notice, error)
	ListAll() ([]models.Notice, error)
	Update(id uint, req models.UpdateNoticeRequest, pdf *multipart.FileHeader) (*models.Notice, error)
	Delete(id uint) error
}

type noticeService struct {
	noticeRepo repositories.NoticeRepository
	files      FileStore
	pub        publisher
}

func NewNoticeService(noticeRepo repositories.NoticeRepository, files FileStore, c cache.Cache, events realtime.Broadcaster) NoticeService {
	return &noticeService{
		noticeRepo: noticeRepo,
		files:      files,
		pub:        publisher{cache: c, events: events, prefix: NoticesCachePrefix},
	}
}

// priorityOrNormal maps anything outside high, normal and low to normal.
func priorityOrNormal(p string) models.NoticePriority {
	priority := models.NoticePriority(strings.ToLower(strings.TrimSpace(p)))
	if !priority.Valid() {
		return models.PriorityNormal
	}
	return priority
}

func (s *noticeService) Create(req models.CreateNoticeRequest, author string, pdf *multipart.FileHeader) (*models.Notice, error) {
	title := sanitizePlain(req.Title)
	content := sanitizeRich(req.Content)
	if title == "" || content == "" {
		return nil, models.Invalid("Title and content are required")
	}

	notice := &models.Notice{
		Title:    title,
		Content:  content,
		Author:   author,
		Priority: priorityOrNormal(req.Priority),
		IsActive: true,
	}

	if pdf != nil {
		file, err := s.files.Save("pdfFile", pdf, storage.AllowDocuments)
		if err != nil {
			return nil, err
		}
		notice.PDFFile = file
	}

	if err := s.noticeRepo.Create(notice); err != nil {
		if notice.PDFFile.Present() {
			s.files.DeleteQuietly(notice.PDFFile.Filename)
		}
		return nil, err
	}

	s.pub.changed("notice-created", notice)
	return notice, nil
}

func (s *noticeService) ListPublic() ([]models.Notice, error) {
	return s.noticeRepo.List(true)
}

func (s *noticeService) ListAll() ([]models.Notice, error) {
	return s.noticeRepo.List(false)
}

func (s *noticeService) Update(id uint, req models.UpdateNoticeRequest, pdf *multipart.FileHeader) (*models.Notice, error) {
	existing, err := s.noticeRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFound("Notice not found")
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := sanitizePlain(*req.Title)
		if title == "" {
			return nil, models.Invalid("Title cannot be empty")
		}
		fields["title"] = title
	}
	if req.Content != nil {
		content := sanitizeRich(*req.Content)
		if content == "" {
			return nil, models.Invalid("Content cannot be empty")
		}
		fields["content"] = content
	}
	if req.Priority != nil && strings.TrimSpace(*req.Priority) != "" {
		priority := models.NoticePriority(strings.ToLower(strings.TrimSpace(*req.Priority)))
		if !priority.Valid() {
			return nil, models.Invalid("Invalid priority. Must be one of: high, normal, low")
		}
		fields["priority"] = string(priority)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	var newFile *models.AttachedFile
	if pdf != nil {
		newFile, err = s.files.Save("pdfFile", pdf, storage.AllowDocuments)
		if err != nil {
			return nil, err
		}
		fields["pdf_filename"] = newFile.Filename
		fields["pdf_original_name"] = newFile.OriginalName
		fields["pdf_mimetype"] = newFile.Mimetype
		fields["pdf_size"] = newFile.Size
	}

	notice, err := s.noticeRepo.Update(id, fields)
	if err != nil {
		if newFile != nil {
			s.files.DeleteQuietly(newFile.Filename)
		}
		if isNotFound(err) {
			return nil, models.NotFound("Notice not found")
		}
		return nil, err
	}

	if newFile != nil && existing.PDFFile.Present() {
		s.files.DeleteQuietly(existing.PDFFile.Filename)
	}

	s.pub.changed("notice-updated", notice)
	return notice, nil
}

func (s *noticeService) Delete(id uint) error {
	notice, err := s.noticeRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return models.NotFound("Notice not found")
		}
		return err
	}

	n, err := s.noticeRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NotFound("Notice not found")
	}

	if notice.PDFFile.Present() {
		s.files.DeleteQuietly(notice.PDFFile.Filename)
	}

	s.pub.changed("notice-deleted", idPayload{ID: id})
	return nil
}
