// Package view holds the presentation-side state machines: the folder
// browser with last-navigation-wins listings, the trash lifecycle, and
// debounced search. None of them talk to the network directly; they drive
// small interfaces satisfied by the API client.
package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/TheGhoul27/NAS-Cloud/internal/logging"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/nav"
)

// Lister lists one folder of the context tree.
type Lister interface {
	ListFiles(ctx context.Context, path string, mctx models.Context) ([]models.FileEntry, error)
}

// FolderView owns the current navigation state and the entries displayed
// for it. Every refresh is tagged with a generation captured at issue time;
// a refresh that resolves after the navigation state moved on is discarded,
// so a slow fetch can never overwrite the listing of a newer path.
type FolderView struct {
	lister Lister
	mctx   models.Context

	mu      sync.Mutex
	nav     *nav.Navigator
	entries []models.FileEntry
	gen     uint64

	// onChange, if set, receives the path and entries after every applied
	// refresh.
	onChange func(path string, entries []models.FileEntry)
}

// NewFolderView starts a view at the context root with an empty listing.
func NewFolderView(lister Lister, mctx models.Context, onChange func(path string, entries []models.FileEntry)) *FolderView {
	return &FolderView{
		lister:   lister,
		mctx:     mctx,
		nav:      nav.New(),
		entries:  []models.FileEntry{},
		onChange: onChange,
	}
}

// Path returns the current navigation path, "" at the root.
func (v *FolderView) Path() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nav.Current()
}

// Breadcrumbs returns the current path segments, nil at the root.
func (v *FolderView) Breadcrumbs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nav.Breadcrumbs()
}

// Entries returns a copy of the currently displayed listing, never nil.
func (v *FolderView) Entries() []models.FileEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.FileEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// NavigateInto descends into the named child folder. Any in-flight refresh
// for the previous path becomes stale.
func (v *FolderView) NavigateInto(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, err := v.nav.NavigateInto(name); err != nil {
		return err
	}
	v.gen++
	return nil
}

// NavigateUp moves to the parent folder; no-op at the root.
func (v *FolderView) NavigateUp() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.NavigateUp()
	v.gen++
}

// NavigateHome jumps to the context root.
func (v *FolderView) NavigateHome() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.NavigateHome()
	v.gen++
}

// NavigateToBreadcrumb truncates the path to segment i.
func (v *FolderView) NavigateToBreadcrumb(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, err := v.nav.NavigateToBreadcrumb(i); err != nil {
		return err
	}
	v.gen++
	return nil
}

// Refresh fetches the listing for the current path and applies it, unless
// the navigation state changed while the fetch was in flight; a stale
// result is dropped without touching the displayed entries. On error the
// previous listing stays intact.
func (v *FolderView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	gen := v.gen
	path := v.nav.Current()
	v.mu.Unlock()

	items, err := v.lister.ListFiles(ctx, path, v.mctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	if v.gen != gen {
		v.mu.Unlock()
		logging.Debug("discarding stale listing",
			zap.String("path", path),
			zap.Uint64("generation", gen),
		)
		return nil
	}
	v.entries = items
	cb := v.onChange
	v.mu.Unlock()

	if cb != nil {
		cb(path, items)
	}
	return nil
}
