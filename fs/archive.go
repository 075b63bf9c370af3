// Package fs provides file-based storage for ad archives: one folder per
// archived ad under a base directory, with a record.json metadata document
// and the saved media files alongside it.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/psawicki/advault"
	"golang.org/x/sync/errgroup"
)

const (
	recordFile = "record.json"
	notesFile  = "notes.txt"

	// maxFolderNameLen caps the sanitized page-name part of a folder name.
	maxFolderNameLen = 40

	// minThumbBytes matches the pipeline's thumbnail size floor.
	minThumbBytes = 10000

	// listConcurrency bounds parallel record reads during List.
	listConcurrency = 8
)

var unsafeNameRe = regexp.MustCompile(`[^\w\s-]`)

// Ensure Store implements advault.ArchiveStore at compile time.
var _ advault.ArchiveStore = (*Store)(nil)

// Store implements advault.ArchiveStore on the local filesystem.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir. The directory is created on
// first use.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// SanitizeName reduces a page name to a filesystem-safe folder component.
func SanitizeName(name string) string {
	s := unsafeNameRe.ReplaceAllString(name, "")
	s = strings.Join(strings.Fields(s), "_")
	if len(s) > maxFolderNameLen {
		s = s[:maxFolderNameLen]
	}
	if s == "" {
		s = "Ad"
	}
	return s
}

// CreateFolder creates the archive folder for an ad. Collisions get a
// numeric suffix so reruns never merge into an earlier archive.
func (s *Store) CreateFolder(adID, pageName string, now time.Time) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("creating base directory: %w", err)
	}

	base := fmt.Sprintf("%s_%s_%s", SanitizeName(pageName), adID, now.Format("2006-01-02"))
	folder := base
	for n := 2; ; n++ {
		path := filepath.Join(s.baseDir, folder)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.Mkdir(path, 0755); err != nil {
				return "", fmt.Errorf("creating archive folder: %w", err)
			}
			return folder, nil
		}
		folder = fmt.Sprintf("%s-%d", base, n)
	}
}

// SaveFile writes one file into an archive folder.
func (s *Store) SaveFile(folder, filename string, data []byte) error {
	dir, err := s.folderPath(folder)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(filename)), data, 0644)
}

// WriteRecord serializes the archive metadata into its folder.
func (s *Store) WriteRecord(archive *advault.Archive) error {
	if err := archive.Validate(); err != nil {
		return err
	}
	dir, err := s.folderPath(archive.Folder)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, recordFile), data, 0644)
}

// List enumerates all archives, most recently archived first. Records are
// read concurrently; folders without a readable record are skipped.
func (s *Store) List(ctx context.Context) ([]*advault.ArchiveSummary, error) {
	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return []*advault.ArchiveSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}

	summaries := make([]*advault.ArchiveSummary, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	for i, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			archive, err := s.Find(entry.Name())
			if err != nil {
				return nil // not an archive folder
			}
			summaries[i] = &advault.ArchiveSummary{
				Folder:       archive.Folder,
				PageName:     archive.PageName,
				AdID:         archive.AdID,
				ArchivedDate: archive.ArchivedAt.Format("2006-01-02"),
				MediaCount:   len(archive.Media),
				Thumb:        archive.Thumb,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*advault.ArchiveSummary, 0, len(summaries))
	for _, sum := range summaries {
		if sum != nil {
			out = append(out, sum)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ArchivedDate > out[j].ArchivedDate
	})
	return out, nil
}

// Find reads one archive's record. Manifest entries whose files were
// deleted out-of-band are dropped, and the thumbnail is recomputed from
// what is actually on disk.
func (s *Store) Find(folder string) (*advault.Archive, error) {
	dir, err := s.folderPath(folder)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, recordFile))
	if os.IsNotExist(err) {
		return nil, advault.Errorf(advault.ENOTFOUND, "archive %q not found", folder)
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive record: %w", err)
	}

	var archive advault.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("decoding archive record: %w", err)
	}
	archive.Folder = folder

	present := archive.Media[:0]
	for _, m := range archive.Media {
		if _, err := os.Stat(filepath.Join(dir, filepath.Base(m.Filename))); err == nil {
			present = append(present, m)
		}
	}
	archive.Media = present
	archive.Thumb = s.thumb(dir, archive.Media)

	return &archive, nil
}

// Note returns the free-text note for a folder, "" if none exists.
func (s *Store) Note(folder string) (string, error) {
	dir, err := s.folderPath(folder)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, notesFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetNote replaces the free-text note for a folder.
func (s *Store) SetNote(folder, text string) error {
	dir, err := s.folderPath(folder)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return advault.Errorf(advault.ENOTFOUND, "archive %q not found", folder)
	}
	return os.WriteFile(filepath.Join(dir, notesFile), []byte(text), 0644)
}

// FilePath resolves a file inside an archive folder to an absolute path.
func (s *Store) FilePath(folder, filename string) (string, error) {
	dir, err := s.folderPath(folder)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", advault.Errorf(advault.ENOTFOUND, "file %q not found in archive %q", filename, folder)
	} else if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// folderPath resolves a folder name to its path under the base directory,
// rejecting names that would escape it.
func (s *Store) folderPath(folder string) (string, error) {
	if folder == "" || folder != filepath.Base(folder) || strings.HasPrefix(folder, ".") {
		return "", advault.Errorf(advault.EINVALID, "invalid archive folder %q", folder)
	}
	return filepath.Join(s.baseDir, folder), nil
}

// thumb picks a representative image from the manifest, preferring the
// first saved image of meaningful size, then the screenshot.
func (s *Store) thumb(dir string, media []advault.SavedMedia) string {
	for _, m := range media {
		if m.Kind != advault.MediaImage {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, filepath.Base(m.Filename))); err == nil && info.Size() > minThumbBytes {
			return m.Filename
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "screenshot.png")); err == nil {
		return "screenshot.png"
	}
	return ""
}
