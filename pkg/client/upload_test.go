package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
)

func TestUploadFile_Success(t *testing.T) {
	var gotName, gotPath, gotContext, gotBody string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotPath = r.FormValue("path")
		gotContext = r.FormValue("context")

		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			writeJSON(w, http.StatusBadRequest, protocol.ErrorResponse{Error: "no file"})
			return
		}
		gotName = hdr.Filename
		data, _ := io.ReadAll(f)
		gotBody = string(data)
		f.Close()

		writeJSON(w, http.StatusCreated, protocol.UploadResponse{
			File: models.FileEntry{Name: hdr.Filename, Path: "docs/" + hdr.Filename, Size: hdr.Size},
		})
	}))
	defer ts.Close()

	content := "hello upload"
	entry, err := c.UploadFile(context.Background(), "note.txt", strings.NewReader(content),
		int64(len(content)), "docs", models.ContextDrive, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Name != "note.txt" || entry.Path != "docs/note.txt" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if gotName != "note.txt" || gotBody != content {
		t.Errorf("server saw name=%q body=%q", gotName, gotBody)
	}
	if gotPath != "docs" || gotContext != "drive" {
		t.Errorf("server saw path=%q context=%q", gotPath, gotContext)
	}
}

func TestUploadFile_ProgressReported(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusCreated, protocol.UploadResponse{})
	}))
	defer ts.Close()

	content := strings.Repeat("x", 64*1024)
	var lastSent, lastTotal int64
	var calls int
	_, err := c.UploadFile(context.Background(), "big.bin", strings.NewReader(content),
		int64(len(content)), "", models.ContextDrive, func(sent, total int64) {
			if sent < lastSent {
				t.Errorf("sent went backwards: %d after %d", sent, lastSent)
			}
			lastSent, lastTotal = sent, total
			calls++
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls == 0 {
		t.Fatal("expected progress callbacks")
	}
	if lastSent != int64(len(content)) || lastTotal != int64(len(content)) {
		t.Errorf("final progress %d/%d, expected %d/%d", lastSent, lastTotal, len(content), len(content))
	}
}

func TestUploadFile_Unauthorized(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusUnauthorized, protocol.ErrorResponse{Error: "token expired"})
	}))
	defer ts.Close()

	_, err := c.UploadFile(context.Background(), "a.txt", strings.NewReader("x"), 1, "", models.ContextDrive, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUploadFile_ServerError(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusInsufficientStorage, protocol.ErrorResponse{Error: "quota exceeded"})
	}))
	defer ts.Close()

	_, err := c.UploadFile(context.Background(), "a.txt", strings.NewReader("x"), 1, "", models.ContextDrive, nil)
	ae, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if ae.Message != "quota exceeded" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}
