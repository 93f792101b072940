// Package models contains the normalized data types shared across the client.
package models

import (
	"strings"
	"time"
)

// Context selects which logical tree an operation targets. The backend
// partitions one generic storage API into two trees, "drive" and "photos".
type Context string

const (
	ContextDrive  Context = "drive"
	ContextPhotos Context = "photos"
)

// Valid reports whether c names a known context.
func (c Context) Valid() bool {
	return c == ContextDrive || c == ContextPhotos
}

// FileEntry represents one item in a folder listing or search result.
// Every backend response shape is normalized into this type at the API
// boundary; view logic never branches on raw response fields.
type FileEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"` // slash-delimited, no leading slash, ends with Name
	IsDirectory bool      `json:"is_directory"`
	Size        int64     `json:"size"`
	MimeType    string    `json:"mime_type,omitempty"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// ParentPath returns the navigational path of the folder containing the
// entry, "" for items at the root.
func (e FileEntry) ParentPath() string {
	if i := strings.LastIndex(e.Path, "/"); i >= 0 {
		return e.Path[:i]
	}
	return ""
}

// TrashEntry represents one soft-deleted item. ExpiresInDays is computed by
// the server from its retention window; the client only displays it.
type TrashEntry struct {
	TrashID       string    `json:"trash_id"`
	OriginalName  string    `json:"original_name"`
	OriginalPath  string    `json:"original_path"`
	IsDirectory   bool      `json:"is_directory"`
	Size          int64     `json:"size"`
	DeletedAt     time.Time `json:"deleted_at"`
	ExpiresInDays int       `json:"expires_in_days"`
	Context       Context   `json:"context"`
}

// StorageInfo describes account-level storage usage.
type StorageInfo struct {
	UsedBytes  int64 `json:"used_bytes"`
	TotalBytes int64 `json:"total_bytes"`
	FileCount  int64 `json:"file_count"`
}
