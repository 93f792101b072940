// Package protocol defines the API request/response types.
package protocol

import (
	"time"

	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
)

// ErrorResponse is returned on API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ListResponse is returned by GET /api/files/list and GET /api/files/recent.
type ListResponse struct {
	Path  string             `json:"path"`
	Items []models.FileEntry `json:"items"`
}

// SearchResponse is returned by GET /api/files/search.
type SearchResponse struct {
	Query string             `json:"query"`
	Items []models.FileEntry `json:"items"`
}

// UploadResponse is returned by POST /api/files/upload.
type UploadResponse struct {
	File models.FileEntry `json:"file"`
}

// CreateFolderRequest is the body for POST /api/files/create-folder.
type CreateFolderRequest struct {
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	Context models.Context `json:"context"`
}

// TrashListResponse is returned by GET /api/files/trash.
type TrashListResponse struct {
	Items []models.TrashEntry `json:"items"`
}

// RestoreResponse is returned by POST /api/files/trash/{id}/restore.
type RestoreResponse struct {
	TrashID  string `json:"trash_id"`
	Restored bool   `json:"restored"`
}

// EmptyTrashResponse is returned by DELETE /api/files/trash and by
// POST /api/files/trash/cleanup.
type EmptyTrashResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by the auth endpoints.
type LoginResponse struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated account.
type UserInfo struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	StorageID string `json:"storage_id,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}
