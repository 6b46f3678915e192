package drive

import (
	"context"
	"time"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Folder is a Drive folder as seen by the walker.
type Folder struct {
	ID       string
	Name     string
	ParentID string
}

// Item is a media file discovered during traversal, annotated with the
// folder context the classifier needs.
type Item struct {
	ID         string
	Name       string
	MimeType   string
	SizeBytes  int64
	ModifiedAt time.Time
	FolderID   string
	FolderName string
	FolderPath string
}

// Lister is the subset of the Drive API the walker depends on. The real
// implementation is Client; tests substitute an in-memory fake.
type Lister interface {
	// ListFolders returns the direct child folders of parentID.
	ListFolders(ctx context.Context, parentID string) ([]Folder, error)
	// ListFiles returns the direct non-folder children of parentID.
	ListFiles(ctx context.Context, parentID string) ([]Item, error)
	// GetFolder fetches a single folder by id.
	GetFolder(ctx context.Context, folderID string) (Folder, error)
}
