package services

import (
	"strings"
	"time"

	"chamber-cms/repositories"
)

// OrphanAge is how old an unreferenced upload must be before it is swept.
// Younger files may belong to a request that has not committed yet.
const OrphanAge = time.Hour

type UploadSweeper interface {
	Sweep(maxAge time.Duration, keep func(name string) bool) (int, error)
}

// MaintenanceService runs the periodic housekeeping jobs.
type MaintenanceService interface {
	PurgeExpiredResetTokens() (int64, error)
	SweepOrphanedUploads() (int, error)
}

type maintenanceService struct {
	userRepo    repositories.UserRepository
	noticeRepo  repositories.NoticeRepository
	galleryRepo repositories.GalleryRepository
	formRepo    repositories.FormRepository
	uploads     UploadSweeper
}

func NewMaintenanceService(
	userRepo repositories.UserRepository,
	noticeRepo repositories.NoticeRepository,
	galleryRepo repositories.GalleryRepository,
	formRepo repositories.FormRepository,
	uploads UploadSweeper,
) MaintenanceService {
	return &maintenanceService{
		userRepo:    userRepo,
		noticeRepo:  noticeRepo,
		galleryRepo: galleryRepo,
		formRepo:    formRepo,
		uploads:     uploads,
	}
}

func (s *maintenanceService) PurgeExpiredResetTokens() (int64, error) {
	return s.userRepo.PurgeExpiredResetTokens(time.Now())
}

// SweepOrphanedUploads deletes old files that no notice, gallery image or
// form submission references.
func (s *maintenanceService) SweepOrphanedUploads() (int, error) {
	referenced := map[string]bool{}

	noticeFiles, err := s.noticeRepo.AttachedFiles()
	if err != nil {
		return 0, err
	}
	formFiles, err := s.formRepo.AttachedFiles()
	if err != nil {
		return 0, err
	}
	urls, err := s.galleryRepo.ImageURLs()
	if err != nil {
		return 0, err
	}

	for _, name := range append(noticeFiles, formFiles...) {
		referenced[name] = true
	}
	for _, url := range urls {
		referenced[strings.TrimPrefix(url, FilesURLPrefix)] = true
	}

	return s.uploads.Sweep(OrphanAge, func(name string) bool {
		return referenced[name]
	})
}
