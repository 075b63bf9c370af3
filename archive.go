package advault

import (
	"context"
	"time"
)

// Archive is the durable, folder-scoped record of one archived ad: the
// extraction fields plus the manifest of saved media files. Created once at
// job completion and never modified afterwards; the notes feature writes a
// sibling file, not the record.
type Archive struct {
	AdID       string       `json:"ad_id"`
	SourceURL  string       `json:"url"`
	PageName   string       `json:"page_name"`
	Status     Status       `json:"status"`
	StartedOn  string       `json:"started,omitempty"`
	Platforms  []string     `json:"platforms"`
	BodyText   string       `json:"ad_text,omitempty"`
	ExtraText  string       `json:"extra_text,omitempty"`
	Media      []SavedMedia `json:"media"`
	ArchivedAt time.Time    `json:"archived_at"`
	Folder     string       `json:"folder"`

	// Thumb is the filename of a representative image, recomputed on read.
	Thumb string `json:"thumb,omitempty"`
}

// Validate returns an error if the archive contains invalid fields.
func (a *Archive) Validate() error {
	if a.AdID == "" {
		return Errorf(EINVALID, "archive ad ID required")
	}
	if a.Folder == "" {
		return Errorf(EINVALID, "archive folder required")
	}
	return nil
}

// ArchiveSummary is one row of the archive listing.
type ArchiveSummary struct {
	Folder       string `json:"folder"`
	PageName     string `json:"page_name"`
	AdID         string `json:"ad_id"`
	ArchivedDate string `json:"saved"`
	MediaCount   int    `json:"media_count"`
	Thumb        string `json:"thumb,omitempty"`
}

// ArchiveStore persists archives as one folder per ad under a base
// directory. Folder arguments are sanitized by implementations; traversal
// outside the base directory is rejected with EINVALID.
type ArchiveStore interface {
	// CreateFolder creates the folder for an ad, named from the sanitized
	// page name, the ad id and the date. A name collision is resolved by
	// appending a numeric suffix rather than merging into the existing
	// folder.
	CreateFolder(adID, pageName string, now time.Time) (folder string, err error)

	// SaveFile writes one file into an archive folder.
	SaveFile(folder, filename string, data []byte) error

	// WriteRecord serializes the archive's metadata document into its
	// folder.
	WriteRecord(archive *Archive) error

	// List enumerates all archives, most recent first.
	List(ctx context.Context) ([]*ArchiveSummary, error)

	// Find reads one archive's record by folder name, dropping manifest
	// entries whose files no longer exist and recomputing the thumbnail.
	// Returns ENOTFOUND if the folder or its record is missing.
	Find(folder string) (*Archive, error)

	// Note returns the free-text note for a folder, "" if none.
	Note(folder string) (string, error)

	// SetNote replaces the free-text note for a folder.
	// Returns ENOTFOUND if the folder does not exist.
	SetNote(folder, text string) error

	// FilePath resolves a file inside an archive folder to an absolute
	// path suitable for serving. Returns ENOTFOUND if the file does not
	// exist.
	FilePath(folder, filename string) (string, error)
}
