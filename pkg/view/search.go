package view

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
)

// Debouncer coalesces rapid calls: only the last call within the quiet
// window fires. Safe for concurrent use.
type Debouncer struct {
	quiet time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Call schedules fn after the quiet window, replacing any pending call.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Searcher runs one search against the API.
type Searcher interface {
	SearchFiles(ctx context.Context, query string, mctx models.Context, fileType string) ([]models.FileEntry, error)
}

// SearchView debounces keystrokes into search calls and applies only the
// most recent query's results; a slow response for a superseded query is
// discarded.
type SearchView struct {
	searcher Searcher
	mctx     models.Context
	debounce *Debouncer

	mu      sync.Mutex
	seq     uint64
	results []models.FileEntry

	// onResults receives applied results; onError receives failures for
	// queries that were still current when they failed.
	onResults func(query string, items []models.FileEntry)
	onError   func(query string, err error)
}

// NewSearchView creates a search view with the given quiet window.
func NewSearchView(searcher Searcher, mctx models.Context, quiet time.Duration,
	onResults func(query string, items []models.FileEntry), onError func(query string, err error)) *SearchView {
	return &SearchView{
		searcher:  searcher,
		mctx:      mctx,
		debounce:  NewDebouncer(quiet),
		results:   []models.FileEntry{},
		onResults: onResults,
		onError:   onError,
	}
}

// Results returns a copy of the last applied result set, never nil.
func (v *SearchView) Results() []models.FileEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.FileEntry, len(v.results))
	copy(out, v.results)
	return out
}

// SetQuery registers a keystroke. Each call supersedes any in-flight or
// pending query; a query shorter than two characters clears the results
// without touching the network.
func (v *SearchView) SetQuery(ctx context.Context, query, fileType string) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	if len([]rune(strings.TrimSpace(query))) < 2 {
		v.debounce.Stop()
		v.mu.Lock()
		if v.seq == seq {
			v.results = []models.FileEntry{}
		}
		v.mu.Unlock()
		return
	}

	v.debounce.Call(func() {
		v.run(ctx, seq, query, fileType)
	})
}

func (v *SearchView) run(ctx context.Context, seq uint64, query, fileType string) {
	v.mu.Lock()
	current := v.seq == seq
	v.mu.Unlock()
	if !current {
		return
	}

	items, err := v.searcher.SearchFiles(ctx, query, v.mctx, fileType)

	v.mu.Lock()
	if v.seq != seq {
		v.mu.Unlock()
		return
	}
	if err == nil {
		v.results = items
	}
	onResults, onError := v.onResults, v.onError
	v.mu.Unlock()

	if err != nil {
		if onError != nil {
			onError(query, err)
		}
		return
	}
	if onResults != nil {
		onResults(query, items)
	}
}
