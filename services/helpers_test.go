package services

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"chamber-cms/config"
	"chamber-cms/mailer"
	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "services.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

type emitted struct {
	event string
	data  any
	rooms []realtime.Room
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []emitted
}

func (b *recordingBroadcaster) Emit(event string, data any, rooms ...realtime.Room) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, emitted{event: event, data: data, rooms: rooms})
}

func (b *recordingBroadcaster) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, e := range b.events {
		out = append(out, e.event)
	}
	return out
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "fake", nil
}

// fakeFiles records saves and deletes without touching disk.
type fakeFiles struct {
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeFiles) Save(field string, fh *multipart.FileHeader, _ storage.Policy) (*models.AttachedFile, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	name := field + "-" + fh.Filename
	f.saved = append(f.saved, name)
	return &models.AttachedFile{Filename: name, OriginalName: fh.Filename, Mimetype: "application/pdf", Size: fh.Size}, nil
}

func (f *fakeFiles) Path(name string) (string, error) {
	if name == "" {
		return "", errors.New("empty name")
	}
	return filepath.Join(os.TempDir(), name), nil
}

func (f *fakeFiles) DeleteQuietly(name string) {
	f.deleted = append(f.deleted, name)
}
