package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/TheGhoul27/NAS-Cloud/internal/metrics"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
)

// progressReader counts bytes as they leave the client and reports them to
// the callback.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	fn    func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.fn != nil {
			p.fn(p.sent, p.total)
		}
	}
	return n, err
}

// UploadFile uploads one file as multipart form data. onProgress, if
// non-nil, receives (bytes sent, bytes total) as the body streams out.
// The request body is a one-shot stream, so uploads are never retried
// automatically; callers decide whether to resubmit a failed item.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, size int64, path string, mctx models.Context, onProgress func(sent, total int64)) (*models.FileEntry, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(mw, name, content, size, path, mctx, onProgress)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.applyAuth(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setOnline(false)
		metrics.RecordAPIRequest("upload_file", "error", time.Since(start))
		metrics.RecordUpload(size, false)
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.setOnline(resp.StatusCode < 500)
		err := c.errorFromResponse(resp)
		metrics.RecordAPIRequest("upload_file", resultLabel(err), time.Since(start))
		metrics.RecordUpload(size, false)
		return nil, err
	}

	c.setOnline(true)

	var ur protocol.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		metrics.RecordAPIRequest("upload_file", "error", time.Since(start))
		metrics.RecordUpload(size, false)
		return nil, fmt.Errorf("upload %s: parse response: %w", name, err)
	}

	metrics.RecordAPIRequest("upload_file", "ok", time.Since(start))
	metrics.RecordUpload(size, true)
	return &ur.File, nil
}

func writeUploadForm(mw *multipart.Writer, name string, content io.Reader, size int64, path string, mctx models.Context, onProgress func(sent, total int64)) error {
	if err := mw.WriteField("path", path); err != nil {
		return err
	}
	if err := mw.WriteField("context", string(mctx)); err != nil {
		return err
	}

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}

	_, err = io.Copy(part, &progressReader{r: content, total: size, fn: onProgress})
	return err
}
