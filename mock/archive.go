package mock

import (
	"context"
	"time"

	"github.com/psawicki/advault"
)

var _ advault.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore is a mock implementation of advault.ArchiveStore.
type ArchiveStore struct {
	CreateFolderFn func(adID, pageName string, now time.Time) (string, error)
	SaveFileFn     func(folder, filename string, data []byte) error
	WriteRecordFn  func(archive *advault.Archive) error
	ListFn         func(ctx context.Context) ([]*advault.ArchiveSummary, error)
	FindFn         func(folder string) (*advault.Archive, error)
	NoteFn         func(folder string) (string, error)
	SetNoteFn      func(folder, text string) error
	FilePathFn     func(folder, filename string) (string, error)
}

func (s *ArchiveStore) CreateFolder(adID, pageName string, now time.Time) (string, error) {
	return s.CreateFolderFn(adID, pageName, now)
}

func (s *ArchiveStore) SaveFile(folder, filename string, data []byte) error {
	return s.SaveFileFn(folder, filename, data)
}

func (s *ArchiveStore) WriteRecord(archive *advault.Archive) error {
	return s.WriteRecordFn(archive)
}

func (s *ArchiveStore) List(ctx context.Context) ([]*advault.ArchiveSummary, error) {
	return s.ListFn(ctx)
}

func (s *ArchiveStore) Find(folder string) (*advault.Archive, error) {
	return s.FindFn(folder)
}

func (s *ArchiveStore) Note(folder string) (string, error) {
	return s.NoteFn(folder)
}

func (s *ArchiveStore) SetNote(folder, text string) error {
	return s.SetNoteFn(folder, text)
}

func (s *ArchiveStore) FilePath(folder, filename string) (string, error) {
	return s.FilePathFn(folder, filename)
}
