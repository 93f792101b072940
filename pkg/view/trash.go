package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/TheGhoul27/NAS-Cloud/internal/logging"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
)

// TrashAPI is the slice of the client the trash view needs.
type TrashAPI interface {
	ListTrash(ctx context.Context, mctx models.Context) ([]models.TrashEntry, error)
	RestoreFromTrash(ctx context.Context, trashID string) error
	PermanentlyDelete(ctx context.Context, trashID string) error
	EmptyTrash(ctx context.Context, mctx models.Context) (int, error)
}

// Urgency buckets the remaining retention of a trash entry for display.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyCritical
)

// ExpiryUrgency maps days-until-purge to an urgency bucket. Display only;
// the authoritative purge countdown lives server-side.
func ExpiryUrgency(days int) Urgency {
	switch {
	case days <= 3:
		return UrgencyCritical
	case days <= 7:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// TrashView mirrors the server's trash listing and keeps it consistent
// through restore, purge and empty operations. The local list only changes
// on success; a failed call leaves it exactly as the last fetch produced it.
type TrashView struct {
	api  TrashAPI
	mctx models.Context

	// refreshMain, if set, fires after any operation that puts an item back
	// into (or removes one from) the main tree.
	refreshMain func()

	mu      sync.Mutex
	entries []models.TrashEntry
}

// NewTrashView creates a trash view for one context tree.
func NewTrashView(api TrashAPI, mctx models.Context, refreshMain func()) *TrashView {
	return &TrashView{api: api, mctx: mctx, refreshMain: refreshMain, entries: []models.TrashEntry{}}
}

// Entries returns a copy of the current local trash list, never nil.
func (v *TrashView) Entries() []models.TrashEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.TrashEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Refresh replaces the local list with the server's.
func (v *TrashView) Refresh(ctx context.Context) error {
	items, err := v.api.ListTrash(ctx, v.mctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.entries = items
	v.mu.Unlock()
	return nil
}

// Restore undeletes one entry. On success it leaves the trash list without
// the entry and triggers the main-listing refresh.
func (v *TrashView) Restore(ctx context.Context, trashID string) error {
	if err := v.api.RestoreFromTrash(ctx, trashID); err != nil {
		return err
	}
	v.removeLocal(trashID)
	logging.Info("restored from trash", zap.String("trash_id", trashID))
	if v.refreshMain != nil {
		v.refreshMain()
	}
	return nil
}

// PermanentlyDelete purges one entry for good. Callers gate this behind an
// explicit confirmation; there is no server-side undo.
func (v *TrashView) PermanentlyDelete(ctx context.Context, trashID string) error {
	if err := v.api.PermanentlyDelete(ctx, trashID); err != nil {
		return err
	}
	v.removeLocal(trashID)
	logging.Info("permanently deleted", zap.String("trash_id", trashID))
	if v.refreshMain != nil {
		v.refreshMain()
	}
	return nil
}

// EmptyTrash purges every entry in this context and returns the count the
// server reports. Confirmation-gated by the caller, like PermanentlyDelete.
func (v *TrashView) EmptyTrash(ctx context.Context) (int, error) {
	n, err := v.api.EmptyTrash(ctx, v.mctx)
	if err != nil {
		return 0, err
	}
	v.mu.Lock()
	v.entries = []models.TrashEntry{}
	v.mu.Unlock()
	logging.Info("trash emptied", zap.Int("count", n), zap.String("context", string(v.mctx)))
	if v.refreshMain != nil {
		v.refreshMain()
	}
	return n, nil
}

// removeLocal drops the entry with the given id; absent ids are a no-op so
// a double restore or a stale id never corrupts the list.
func (v *TrashView) removeLocal(trashID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, e := range v.entries {
		if e.TrashID == trashID {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			return
		}
	}
}
