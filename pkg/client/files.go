package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TheGhoul27/NAS-Cloud/internal/metrics"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
)

// ListFiles fetches the contents of one folder.
func (c *Client) ListFiles(ctx context.Context, path string, mctx models.Context) ([]models.FileEntry, error) {
	q := url.Values{}
	q.Set("path", path)
	q.Set("context", string(mctx))

	var resp protocol.ListResponse
	if err := c.doJSON(ctx, "list_files", http.MethodGet, "/api/files/list", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.FileEntry{}
	}
	return resp.Items, nil
}

// CreateFolder creates a folder under path.
func (c *Client) CreateFolder(ctx context.Context, name, path string, mctx models.Context) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidFolderName, name)
	}

	body := protocol.CreateFolderRequest{Name: name, Path: path, Context: mctx}
	return c.doJSON(ctx, "create_folder", http.MethodPost, "/api/files/create-folder", nil, body, nil)
}

// DeleteFile soft-deletes the file or folder at path, moving it to trash.
func (c *Client) DeleteFile(ctx context.Context, path string, mctx models.Context) error {
	q := url.Values{}
	q.Set("context", string(mctx))

	return c.doJSON(ctx, "delete_file", http.MethodDelete, "/api/files/delete/"+escapePath(path), q, nil, nil)
}

// DownloadFile streams the contents of the file at path. The caller must
// close the returned reader. The body is handed over as-is, so downloads
// are not retried automatically; rerunning the download is the recovery.
func (c *Client) DownloadFile(ctx context.Context, path string, mctx models.Context) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("context", string(mctx))
	u := c.baseURL + "/api/files/download/" + escapePath(path) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.applyAuth(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setOnline(false)
		metrics.RecordAPIRequest("download_file", "error", time.Since(start))
		return nil, fmt.Errorf("download %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.setOnline(resp.StatusCode < 500)
		err := c.errorFromResponse(resp)
		resp.Body.Close()
		metrics.RecordAPIRequest("download_file", resultLabel(err), time.Since(start))
		return nil, err
	}

	c.setOnline(true)
	metrics.RecordAPIRequest("download_file", "ok", time.Since(start))
	return resp.Body, nil
}

// SearchFiles performs a substring search across the tree. Queries shorter
// than two characters fail with ErrQueryTooShort before any network call.
func (c *Client) SearchFiles(ctx context.Context, query string, mctx models.Context, fileType string) ([]models.FileEntry, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return nil, ErrQueryTooShort
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("context", string(mctx))
	if fileType != "" {
		q.Set("file_type", fileType)
	}

	var resp protocol.SearchResponse
	if err := c.doJSON(ctx, "search_files", http.MethodGet, "/api/files/search", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.FileEntry{}
	}
	return resp.Items, nil
}

// RecentFiles fetches the most recently modified files.
func (c *Client) RecentFiles(ctx context.Context, limit int, mctx models.Context) ([]models.FileEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("context", string(mctx))

	var resp protocol.ListResponse
	if err := c.doJSON(ctx, "recent_files", http.MethodGet, "/api/files/recent", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.FileEntry{}
	}
	return resp.Items, nil
}

// StorageInfo fetches account-level usage.
func (c *Client) StorageInfo(ctx context.Context) (*models.StorageInfo, error) {
	var info models.StorageInfo
	if err := c.doJSON(ctx, "storage_info", http.MethodGet, "/api/files/storage-info", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
