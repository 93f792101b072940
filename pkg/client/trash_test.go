package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
)

func TestListTrash(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("context") != "photos" {
			t.Errorf("expected photos context, got %q", r.URL.Query().Get("context"))
		}
		writeJSON(w, http.StatusOK, protocol.TrashListResponse{
			Items: []models.TrashEntry{
				{
					TrashID:       "t1",
					OriginalName:  "old.jpg",
					OriginalPath:  "albums/old.jpg",
					Size:          2048,
					DeletedAt:     time.Now().Add(-24 * time.Hour),
					ExpiresInDays: 29,
					Context:       models.ContextPhotos,
				},
			},
		})
	}))
	defer ts.Close()

	items, err := c.ListTrash(context.Background(), models.ContextPhotos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].TrashID != "t1" || items[0].ExpiresInDays != 29 {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestRestoreFromTrash(t *testing.T) {
	var gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		writeJSON(w, http.StatusOK, protocol.RestoreResponse{TrashID: "t1", Restored: true})
	}))
	defer ts.Close()

	if err := c.RestoreFromTrash(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/files/trash/t1/restore" {
		t.Errorf("unexpected path: %q", gotPath)
	}
}

func TestRestoreFromTrash_NotFound(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, protocol.ErrorResponse{Error: "not in trash"})
	}))
	defer ts.Close()

	err := c.RestoreFromTrash(context.Background(), "ghost")
	ae, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if ae.Status != http.StatusNotFound {
		t.Errorf("unexpected status: %d", ae.Status)
	}
}

func TestEmptyTrash(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		writeJSON(w, http.StatusOK, protocol.EmptyTrashResponse{Count: 7, Message: "trash emptied"})
	}))
	defer ts.Close()

	n, err := c.EmptyTrash(context.Background(), models.ContextDrive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 purged, got %d", n)
	}
}

func TestTrash_Unauthorized(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, protocol.ErrorResponse{Error: "token expired"})
	}))
	defer ts.Close()

	if _, err := c.ListTrash(context.Background(), models.ContextDrive); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ListTrash: expected ErrUnauthorized, got %v", err)
	}
	if err := c.PermanentlyDelete(context.Background(), "t1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("PermanentlyDelete: expected ErrUnauthorized, got %v", err)
	}
	if _, err := c.EmptyTrash(context.Background(), models.ContextDrive); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("EmptyTrash: expected ErrUnauthorized, got %v", err)
	}
}
