package services

import (
	"mime/multipart"
	"time"

	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/repositories"
	"chamber-cms/storage"
)

type FormService interface {
	Submit(req models.SubmitFormRequest, pdf *multipart.FileHeader) (*models.FormSubmission, error)
	List() ([]models.FormSubmission, error)
	Delete(id uint) error
}

type formService struct {
	formRepo repositories.FormRepository
	files    FileStore
	events   realtime.Broadcaster
}

func NewFormService(formRepo repositories.FormRepository, files FileStore, events realtime.Broadcaster) FormService {
	return &formService{formRepo: formRepo, files: files, events: events}
}

func (s *formService) Submit(req models.SubmitFormRequest, pdf *multipart.FileHeader) (*models.FormSubmission, error) {
	submission := &models.FormSubmission{
		Name:        sanitizePlain(req.Name),
		Email:       normalizeEmail(req.Email),
		Phone:       sanitizePlain(req.Phone),
		Message:     sanitizePlain(req.Message),
		Category:    sanitizePlain(req.Category),
		Address:     sanitizePlain(req.Address),
		SubmittedAt: time.Now(),
	}
	if submission.Name == "" || submission.Phone == "" || submission.Message == "" {
		return nil, models.Invalid("Name, email, phone and message are required")
	}
	if submission.Category == "" {
		submission.Category = "general"
	}

	if pdf != nil {
		file, err := s.files.Save("pdfFile", pdf, storage.AllowPDF)
		if err != nil {
			return nil, err
		}
		submission.PDFFile = file
	}

	if err := s.formRepo.Create(submission); err != nil {
		if submission.PDFFile.Present() {
			s.files.DeleteQuietly(submission.PDFFile.Filename)
		}
		return nil, err
	}

	if s.events != nil {
		s.events.Emit("form-submitted", submission, realtime.RoomAdmin)
	}
	return submission, nil
}

func (s *formService) List() ([]models.FormSubmission, error) {
	return s.formRepo.List()
}

func (s *formService) Delete(id uint) error {
	submission, err := s.formRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return models.NotFound("Submission not found")
		}
		return err
	}

	n, err := s.formRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NotFound("Submission not found")
	}

	if submission.PDFFile.Present() {
		s.files.DeleteQuietly(submission.PDFFile.Filename)
	}
	return nil
}
