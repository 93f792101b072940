package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
)

// ListTrash fetches all soft-deleted items for the context.
func (c *Client) ListTrash(ctx context.Context, mctx models.Context) ([]models.TrashEntry, error) {
	q := url.Values{}
	q.Set("context", string(mctx))

	var resp protocol.TrashListResponse
	if err := c.doJSON(ctx, "list_trash", http.MethodGet, "/api/files/trash", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.TrashEntry{}
	}
	return resp.Items, nil
}

// RestoreFromTrash moves the item back to its original location.
func (c *Client) RestoreFromTrash(ctx context.Context, trashID string) error {
	return c.doJSON(ctx, "restore_from_trash", http.MethodPost,
		"/api/files/trash/"+url.PathEscape(trashID)+"/restore", nil, nil, nil)
}

// PermanentlyDelete purges one item. Irreversible; callers gate this behind
// explicit user confirmation.
func (c *Client) PermanentlyDelete(ctx context.Context, trashID string) error {
	return c.doJSON(ctx, "permanently_delete", http.MethodDelete,
		"/api/files/trash/"+url.PathEscape(trashID), nil, nil, nil)
}

// EmptyTrash purges every item for the context and returns the purged
// count. Irreversible; callers gate this behind explicit user confirmation.
func (c *Client) EmptyTrash(ctx context.Context, mctx models.Context) (int, error) {
	q := url.Values{}
	q.Set("context", string(mctx))

	var resp protocol.EmptyTrashResponse
	if err := c.doJSON(ctx, "empty_trash", http.MethodDelete, "/api/files/trash", q, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// CleanupTrash asks the server to purge items past their retention window
// now instead of waiting for the scheduled sweep.
func (c *Client) CleanupTrash(ctx context.Context, mctx models.Context) (int, error) {
	q := url.Values{}
	q.Set("context", string(mctx))

	var resp protocol.EmptyTrashResponse
	if err := c.doJSON(ctx, "cleanup_trash", http.MethodPost, "/api/files/trash/cleanup", q, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
