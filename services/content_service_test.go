package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"chamber-cms/cache"
	"chamber-cms/models"
	"chamber-cms/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNoticeService_CreateSanitizesAndDefaults(t *testing.T) {
	events := &recordingBroadcaster{}
	svc := NewNoticeService(repositories.NewNoticeRepository(newTestDB(t)), &fakeFiles{}, nil, events)

	notice, err := svc.Create(models.CreateNoticeRequest{
		Title:    "<script>alert(1)</script>AGM &amp; dinner",
		Content:  `<p onclick="x()">Hello <b>members</b></p><script>bad()</script>`,
		Priority: "URGENT",
	}, "admin@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "AGM & dinner", notice.Title)
	assert.Equal(t, "<p>Hello <b>members</b></p>", notice.Content)
	assert.Equal(t, models.PriorityNormal, notice.Priority)
	assert.True(t, notice.IsActive)
	assert.Equal(t, []string{"notice-created"}, events.names())

	_, err = svc.Create(models.CreateNoticeRequest{Title: "<i></i>", Content: "x"}, "a", nil)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNoticeService_ReplacingPDFDeletesOldFile(t *testing.T) {
	files := &fakeFiles{}
	svc := NewNoticeService(repositories.NewNoticeRepository(newTestDB(t)), files, nil, nil)

	notice, err := svc.Create(models.CreateNoticeRequest{Title: "T", Content: "C"}, "a", &multipart.FileHeader{Filename: "one.pdf"})
	require.NoError(t, err)
	require.True(t, notice.PDFFile.Present())

	updated, err := svc.Update(notice.ID, models.UpdateNoticeRequest{}, &multipart.FileHeader{Filename: "two.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pdfFile-two.pdf", updated.PDFFile.Filename)
	assert.Equal(t, []string{"pdfFile-one.pdf"}, files.deleted)

	require.NoError(t, svc.Delete(notice.ID))
	assert.Equal(t, []string{"pdfFile-one.pdf", "pdfFile-two.pdf"}, files.deleted)
	assert.ErrorIs(t, svc.Delete(notice.ID), models.ErrNotFound)
}

func TestNoticeService_UpdateValidation(t *testing.T) {
	svc := NewNoticeService(repositories.NewNoticeRepository(newTestDB(t)), &fakeFiles{}, nil, nil)
	notice, err := svc.Create(models.CreateNoticeRequest{Title: "T", Content: "C"}, "a", nil)
	require.NoError(t, err)

	_, err = svc.Update(notice.ID, models.UpdateNoticeRequest{Priority: strPtr("urgent")}, nil)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Update(notice.ID, models.UpdateNoticeRequest{Title: strPtr("  ")}, nil)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Update(999, models.UpdateNoticeRequest{Title: strPtr("x")}, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := svc.Update(notice.ID, models.UpdateNoticeRequest{Priority: strPtr("High"), IsActive: boolPtr(false)}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.False(t, updated.IsActive)

	public, err := svc.ListPublic()
	require.NoError(t, err)
	assert.Empty(t, public)
	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNoticeService_MutationsInvalidateCache(t *testing.T) {
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, NoticesCachePrefix+"/api/notices", []byte("[]"), 0))
	require.NoError(t, store.Set(ctx, NewsCachePrefix+"/api/news", []byte("[]"), 0))

	svc := NewNoticeService(repositories.NewNoticeRepository(newTestDB(t)), &fakeFiles{}, store, nil)
	_, err := svc.Create(models.CreateNoticeRequest{Title: "T", Content: "C"}, "a", nil)
	require.NoError(t, err)

	_, err = store.Get(ctx, NoticesCachePrefix+"/api/notices")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = store.Get(ctx, NewsCachePrefix+"/api/news")
	assert.NoError(t, err)
}

func TestNewsService_Validation(t *testing.T) {
	svc := NewNewsService(repositories.NewNewsRepository(newTestDB(t)), nil, nil)

	_, err := svc.Create(models.CreateNewsRequest{Title: "Hi", Content: "Long enough content"}, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Create(models.CreateNewsRequest{Title: "Headline", Content: "short"}, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Create(models.CreateNewsRequest{Title: "Headline", Content: "Long enough content", Category: "gossip"}, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	news, err := svc.Create(models.CreateNewsRequest{Title: "Headline", Content: "Long enough content"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.NewsBusiness, news.Category)
	assert.Equal(t, "Admin", news.Author)
	assert.False(t, news.PublishedAt.IsZero())

	_, err = svc.Update(news.ID, models.UpdateNewsRequest{Category: strPtr("gossip")})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Update(news.ID+100, models.UpdateNewsRequest{Title: strPtr("Headline")})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNewsService_PublicListIsCapped(t *testing.T) {
	svc := NewNewsService(repositories.NewNewsRepository(newTestDB(t)), nil, nil)
	for i := 0; i < repositories.PublicNewsLimit+3; i++ {
		_, err := svc.Create(models.CreateNewsRequest{
			Title:   fmt.Sprintf("Headline %d", i),
			Content: "Long enough content",
		}, "Editor")
		require.NoError(t, err)
	}

	public, err := svc.ListPublic()
	require.NoError(t, err)
	assert.Len(t, public, repositories.PublicNewsLimit)
	assert.Equal(t, "Headline 12", public[0].Title)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, repositories.PublicNewsLimit+3)
}

func TestGalleryService_ValidationHappensBeforeSave(t *testing.T) {
	files := &fakeFiles{}
	svc := NewGalleryService(repositories.NewGalleryRepository(newTestDB(t)), files, nil, nil, nil)
	image := &multipart.FileHeader{Filename: "a.png"}

	cases := []models.UploadGalleryImageRequest{
		{Description: "d", AltText: "a"},
		{Title: "t", AltText: "a"},
		{Title: "t", Description: "d"},
		{Title: "t", Description: "d", AltText: "a", Category: "party"},
	}
	for _, req := range cases {
		_, err := svc.Upload(req, image, "Admin")
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	_, err := svc.Upload(models.UploadGalleryImageRequest{Title: "t", Description: "d", AltText: "a"}, image, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, files.saved)

	saved, err := svc.Upload(models.UploadGalleryImageRequest{Title: "t", Description: "d", AltText: "a", Order: "x"}, image, "Admin")
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Order)
	assert.Equal(t, FilesURLPrefix+"image-a.png", saved.ImageURL)

	updated, err := svc.Update(saved.ID, models.UpdateGalleryImageRequest{Category: strPtr("conference")})
	require.NoError(t, err)
	assert.Equal(t, models.GalleryConference, updated.Category)

	require.NoError(t, svc.Delete(saved.ID))
	assert.Equal(t, []string{"image-a.png"}, files.deleted)
}

func TestFormService_Submit(t *testing.T) {
	events := &recordingBroadcaster{}
	files := &fakeFiles{}
	svc := NewFormService(repositories.NewFormRepository(newTestDB(t)), files, events)

	submission, err := svc.Submit(models.SubmitFormRequest{
		Name: "Visitor", Email: "Visitor@Example.com", Phone: "0123", Message: "<b>Hi</b>",
	}, &multipart.FileHeader{Filename: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "general", submission.Category)
	assert.Equal(t, []string{"form-submitted"}, events.names())

	require.NoError(t, svc.Delete(submission.ID))
	assert.Equal(t, []string{"pdfFile-cv.pdf"}, files.deleted)
	assert.ErrorIs(t, svc.Delete(submission.ID), models.ErrNotFound)
}
