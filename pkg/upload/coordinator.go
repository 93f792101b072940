// Package upload coordinates multi-file upload batches.
//
// Items upload strictly sequentially: predictable backend load and simple,
// deterministic progress arithmetic matter more here than wall-clock time
// for large batches. One failed item does not stop the batch; a rejected
// session does, because every remaining item would fail the same way.
package upload

import (
	"context"
	"errors"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/TheGhoul27/NAS-Cloud/internal/logging"
	"github.com/TheGhoul27/NAS-Cloud/internal/metrics"
	"github.com/TheGhoul27/NAS-Cloud/pkg/client"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
)

// ErrNoEligibleFiles is returned when the filter rejects every item before
// the batch starts. No network calls are made in that case.
var ErrNoEligibleFiles = errors.New("no eligible files to upload")

// ErrBatchInProgress is returned when a batch is started while another is
// still running.
var ErrBatchInProgress = errors.New("an upload batch is already in progress")

// Item is one file queued for upload.
type Item struct {
	Name     string
	Size     int64
	MimeType string
	Open     func() (io.ReadCloser, error)
}

// ItemFromFile builds an Item for a file on disk, guessing the MIME type
// from the extension.
func ItemFromFile(path string) (Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Uploader is the part of the API client a batch needs.
type Uploader interface {
	UploadFile(ctx context.Context, name string, content io.Reader, size int64, path string, mctx models.Context, onProgress func(sent, total int64)) (*models.FileEntry, error)
}

// ItemError pairs a failed item with its reason.
type ItemError struct {
	Name string
	Err  error
}

// Summary reports the terminal outcome of a batch.
type Summary struct {
	Succeeded []string
	Failed    []ItemError
	Canceled  bool
}

// Options tune one batch.
type Options struct {
	// Filter excludes items before the batch starts; the photos view
	// passes a media-only predicate here.
	Filter func(Item) bool
	// OnProgress receives the aggregate percentage whenever it changes.
	OnProgress func(percent int)
	// OnItemDone is called after each attempted item; err is nil on
	// success.
	OnItemDone func(name string, err error)
	// OnUnauthorized fires exactly once if the session is rejected
	// mid-batch.
	OnUnauthorized func()
	// RefreshListing fires once after the batch ends. It is skipped when
	// the session was rejected, since the refresh would fail the same way.
	RefreshListing func()
}

// Coordinator runs upload batches. At most one batch runs at a time; a
// finished batch returns the coordinator to idle.
type Coordinator struct {
	uploader Uploader
	mctx     models.Context

	mu        sync.Mutex
	uploading bool
	percent   int
	stop      chan struct{}
}

// NewCoordinator creates a coordinator for the given context tree.
func NewCoordinator(uploader Uploader, mctx models.Context) *Coordinator {
	return &Coordinator{uploader: uploader, mctx: mctx}
}

// Percent returns the aggregate progress of the running batch, 0 when idle.
func (c *Coordinator) Percent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.percent
}

// Uploading reports whether a batch is in flight.
func (c *Coordinator) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Cancel stops the running batch after the in-flight item settles. Items
// already uploaded stay uploaded; no further items are started.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uploading && c.stop != nil {
		select {
		case <-c.stop:
		default:
			close(c.stop)
		}
	}
}

// Run uploads items sequentially into targetPath and blocks until the batch
// reaches a terminal state. It returns client.ErrUnauthorized when the
// session was rejected mid-batch; per-item failures are reported in the
// Summary, not as an error.
func (c *Coordinator) Run(ctx context.Context, items []Item, targetPath string, opts Options) (*Summary, error) {
	if opts.Filter != nil {
		kept := items[:0:0]
		for _, it := range items {
			if opts.Filter(it) {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	if len(items) == 0 {
		return nil, ErrNoEligibleFiles
	}

	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return nil, ErrBatchInProgress
	}
	c.uploading = true
	c.percent = 0
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.uploading = false
		c.stop = nil
		c.mu.Unlock()
	}()

	n := len(items)
	summary := &Summary{}
	completed := 0
	unauthorized := false

	logging.Info("upload batch started",
		zap.Int("items", n),
		zap.String("path", targetPath),
		zap.String("context", string(c.mctx)),
	)

	for _, it := range items {
		if stopped(stop) || ctx.Err() != nil {
			summary.Canceled = true
			break
		}

		err := c.uploadOne(ctx, it, targetPath, completed, n, opts)
		if err == nil {
			completed++
			summary.Succeeded = append(summary.Succeeded, it.Name)
			c.setPercent(aggregatePercent(completed, 0, n), opts)
		} else if errors.Is(err, client.ErrUnauthorized) {
			unauthorized = true
			if opts.OnUnauthorized != nil {
				opts.OnUnauthorized()
			}
		} else {
			summary.Failed = append(summary.Failed, ItemError{Name: it.Name, Err: err})
		}

		if opts.OnItemDone != nil {
			opts.OnItemDone(it.Name, err)
		}
		if unauthorized {
			break
		}
	}

	switch {
	case unauthorized:
		metrics.RecordBatch("aborted")
	case summary.Canceled:
		metrics.RecordBatch("canceled")
	default:
		metrics.RecordBatch("completed")
	}

	logging.Info("upload batch finished",
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
		zap.Bool("canceled", summary.Canceled),
		zap.Bool("unauthorized", unauthorized),
	)

	if !unauthorized && opts.RefreshListing != nil {
		opts.RefreshListing()
	}

	if unauthorized {
		return summary, client.ErrUnauthorized
	}
	return summary, nil
}

func (c *Coordinator) uploadOne(ctx context.Context, it Item, targetPath string, completed, n int, opts Options) error {
	r, err := it.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = c.uploader.UploadFile(ctx, it.Name, r, it.Size, targetPath, c.mctx, func(sent, total int64) {
		frac := 0.0
		if total > 0 {
			frac = float64(sent) / float64(total)
		}
		c.setPercent(aggregatePercent(completed, frac, n), opts)
	})
	return err
}

// aggregatePercent folds completed items and the in-flight item's fraction
// into a single 0-100 value.
func aggregatePercent(completed int, itemFraction float64, n int) int {
	p := int(math.Round((float64(completed)*100 + itemFraction*100) / float64(n)))
	if p > 100 {
		p = 100
	}
	return p
}

// setPercent applies the computed percentage, clamped so the aggregate
// never decreases within one batch even when an item fails partway.
func (c *Coordinator) setPercent(p int, opts Options) {
	c.mu.Lock()
	if p < c.percent {
		p = c.percent
	}
	changed := p != c.percent
	c.percent = p
	c.mu.Unlock()

	if changed && opts.OnProgress != nil {
		opts.OnProgress(p)
	}
}

func stopped(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
