package upload_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/TheGhoul27/NAS-Cloud/pkg/client"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/upload"
)

// fakeUploader records calls and emits half/full progress per item. Items
// listed in fail emit only half progress before returning their error.
type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeUploader) UploadFile(ctx context.Context, name string, content io.Reader, size int64, path string, mctx models.Context, onProgress func(sent, total int64)) (*models.FileEntry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	io.Copy(io.Discard, content)
	if onProgress != nil {
		onProgress(size/2, size)
	}
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	if onProgress != nil {
		onProgress(size, size)
	}
	return &models.FileEntry{Name: name, Path: path + "/" + name, Size: size}, nil
}

func (f *fakeUploader) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testItem(name string, size int64) upload.Item {
	return upload.Item{
		Name:     name,
		Size:     size,
		MimeType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(strings.Repeat("x", int(size)))), nil
		},
	}
}

func TestRun_SequentialWithAggregateProgress(t *testing.T) {
	fu := &fakeUploader{}
	co := upload.NewCoordinator(fu, models.ContextDrive)

	var percents []int
	items := []upload.Item{
		testItem("a.txt", 100), testItem("b.txt", 100),
		testItem("c.txt", 100), testItem("d.txt", 100),
	}
	summary, err := co.Run(context.Background(), items, "docs", upload.Options{
		OnProgress: func(p int) { percents = append(percents, p) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Succeeded) != 4 || len(summary.Failed) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	want := []string{"a.txt", "b.txt", "c.txt", "d.txt"}
	got := fu.callNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d uploads, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("upload order: got %v, want %v", got, want)
			break
		}
	}

	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("expected final percent 100, got %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("percent decreased: %v", percents)
		}
	}
	for _, milestone := range []int{25, 50, 75, 100} {
		found := false
		for _, p := range percents {
			if p == milestone {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("milestone %d missing from %v", milestone, percents)
		}
	}
}

func TestRun_PartialFailureContinues(t *testing.T) {
	fu := &fakeUploader{fail: map[string]error{
		"b.txt": &client.APIError{Status: 507, Message: "quota exceeded"},
	}}
	co := upload.NewCoordinator(fu, models.ContextDrive)

	refreshes := 0
	items := []upload.Item{testItem("a.txt", 10), testItem("b.txt", 10), testItem("c.txt", 10)}
	summary, err := co.Run(context.Background(), items, "", upload.Options{
		RefreshListing: func() { refreshes++ },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Succeeded) != 2 || summary.Succeeded[0] != "a.txt" || summary.Succeeded[1] != "c.txt" {
		t.Errorf("unexpected succeeded: %v", summary.Succeeded)
	}
	if len(summary.Failed) != 1 || summary.Failed[0].Name != "b.txt" {
		t.Fatalf("unexpected failed: %+v", summary.Failed)
	}
	ae, ok := client.AsAPIError(summary.Failed[0].Err)
	if !ok || ae.Status != 507 {
		t.Errorf("expected 507 APIError, got %v", summary.Failed[0].Err)
	}
	if refreshes != 1 {
		t.Errorf("expected one listing refresh, got %d", refreshes)
	}
}

func TestRun_UnauthorizedAbortsBatch(t *testing.T) {
	fu := &fakeUploader{fail: map[string]error{"b.txt": client.ErrUnauthorized}}
	co := upload.NewCoordinator(fu, models.ContextDrive)

	unauthorized := 0
	refreshes := 0
	items := []upload.Item{testItem("a.txt", 10), testItem("b.txt", 10), testItem("c.txt", 10)}
	summary, err := co.Run(context.Background(), items, "", upload.Options{
		OnUnauthorized: func() { unauthorized++ },
		RefreshListing: func() { refreshes++ },
	})
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if unauthorized != 1 {
		t.Errorf("expected exactly one unauthorized signal, got %d", unauthorized)
	}
	if refreshes != 0 {
		t.Errorf("refresh must not fire after an aborted batch, got %d", refreshes)
	}
	calls := fu.callNames()
	if len(calls) != 2 {
		t.Errorf("remaining items must not be attempted, got %v", calls)
	}
	if len(summary.Succeeded) != 1 || summary.Succeeded[0] != "a.txt" {
		t.Errorf("unexpected succeeded: %v", summary.Succeeded)
	}
}

func TestRun_FilterRejectsAll(t *testing.T) {
	fu := &fakeUploader{}
	co := upload.NewCoordinator(fu, models.ContextPhotos)

	items := []upload.Item{testItem("notes.txt", 10), testItem("report.pdf", 10)}
	_, err := co.Run(context.Background(), items, "", upload.Options{
		Filter: func(it upload.Item) bool { return strings.HasPrefix(it.MimeType, "image/") },
	})
	if !errors.Is(err, upload.ErrNoEligibleFiles) {
		t.Fatalf("expected ErrNoEligibleFiles, got %v", err)
	}
	if len(fu.callNames()) != 0 {
		t.Error("no upload may start when every item is filtered out")
	}
}

func TestRun_CancelStopsBeforeNextItem(t *testing.T) {
	fu := &fakeUploader{}
	co := upload.NewCoordinator(fu, models.ContextDrive)

	items := []upload.Item{testItem("a.txt", 10), testItem("b.txt", 10), testItem("c.txt", 10)}
	summary, err := co.Run(context.Background(), items, "", upload.Options{
		OnItemDone: func(name string, err error) {
			if name == "a.txt" {
				co.Cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Canceled {
		t.Error("summary should be marked canceled")
	}
	if calls := fu.callNames(); len(calls) != 1 {
		t.Errorf("in-flight item settles but no new item starts, got %v", calls)
	}
	if len(summary.Succeeded) != 1 {
		t.Errorf("completed items stay completed: %v", summary.Succeeded)
	}
}

func TestRun_ProgressNeverDecreasesOnFailure(t *testing.T) {
	fu := &fakeUploader{fail: map[string]error{
		"a.txt": &client.APIError{Status: 500, Message: "write failed"},
	}}
	co := upload.NewCoordinator(fu, models.ContextDrive)

	var percents []int
	items := []upload.Item{testItem("a.txt", 100), testItem("b.txt", 100)}
	summary, err := co.Run(context.Background(), items, "", upload.Options{
		OnProgress: func(p int) { percents = append(percents, p) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("percent decreased after failed item: %v", percents)
		}
	}
	if len(summary.Succeeded) != 1 || len(summary.Failed) != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRun_SecondBatchWhileRunning(t *testing.T) {
	fu := &fakeUploader{}
	co := upload.NewCoordinator(fu, models.ContextDrive)

	inner := make(chan error, 1)
	items := []upload.Item{testItem("a.txt", 10)}
	_, err := co.Run(context.Background(), items, "", upload.Options{
		OnItemDone: func(string, error) {
			_, e := co.Run(context.Background(), items, "", upload.Options{})
			inner <- e
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e := <-inner; !errors.Is(e, upload.ErrBatchInProgress) {
		t.Errorf("expected ErrBatchInProgress, got %v", e)
	}
}
