package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/psawicki/advault"
)

// Ensure LoggingArchiveStore implements advault.ArchiveStore.
var _ advault.ArchiveStore = (*LoggingArchiveStore)(nil)

// LoggingArchiveStore wraps an ArchiveStore with logging on the write path.
// Reads delegate silently.
type LoggingArchiveStore struct {
	next   advault.ArchiveStore
	logger *slog.Logger
}

// NewLoggingArchiveStore creates a new LoggingArchiveStore.
func NewLoggingArchiveStore(next advault.ArchiveStore, logger *slog.Logger) *LoggingArchiveStore {
	return &LoggingArchiveStore{next: next, logger: logger}
}

func (s *LoggingArchiveStore) CreateFolder(adID, pageName string, now time.Time) (folder string, err error) {
	defer func() {
		s.logger.Info("create archive folder", "ad_id", adID, "folder", folder, "err", err)
	}()
	return s.next.CreateFolder(adID, pageName, now)
}

func (s *LoggingArchiveStore) SaveFile(folder, filename string, data []byte) (err error) {
	defer func() {
		s.logger.Debug("save archive file", "folder", folder, "file", filename, "bytes", len(data), "err", err)
	}()
	return s.next.SaveFile(folder, filename, data)
}

func (s *LoggingArchiveStore) WriteRecord(archive *advault.Archive) (err error) {
	defer func() {
		s.logger.Info("write archive record",
			"folder", archive.Folder,
			"ad_id", archive.AdID,
			"media", len(archive.Media),
			"err", err,
		)
	}()
	return s.next.WriteRecord(archive)
}

func (s *LoggingArchiveStore) List(ctx context.Context) ([]*advault.ArchiveSummary, error) {
	return s.next.List(ctx)
}

func (s *LoggingArchiveStore) Find(folder string) (*advault.Archive, error) {
	return s.next.Find(folder)
}

func (s *LoggingArchiveStore) Note(folder string) (string, error) {
	return s.next.Note(folder)
}

func (s *LoggingArchiveStore) SetNote(folder, text string) (err error) {
	defer func() {
		s.logger.Info("set archive note", "folder", folder, "bytes", len(text), "err", err)
	}()
	return s.next.SetNote(folder, text)
}

func (s *LoggingArchiveStore) FilePath(folder, filename string) (string, error) {
	return s.next.FilePath(folder, filename)
}
