package managed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/deeporigin/deeporigin/pkg/managed/status"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"go.uber.org/zap"
)

// OpenFile opens the contents of a file for reading, through a presigned download URL.
//
// The caller must close the returned reader.
func (c *Client) OpenFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	u, err := c.CreateFileDownloadURL(ctx, fileID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, status.ErrTransfer.Wrap(err)
	}
	resp, err := c.transfer.Do(req)
	if err != nil {
		return nil, status.ErrTransfer.Wrap(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, status.ErrTransfer.Wrap(fmt.Errorf("downloading file %s: %s", fileID, resp.Status))
	}
	c.l.Debug("downloading file", zap.String("file", fileID), zap.Int64("size", resp.ContentLength))
	return resp.Body, nil
}

// DownloadFile saves the contents of a file under some key of a store
func (c *Client) DownloadFile(ctx context.Context, fileID string, store storage.Store, key string, newKey storage.NewKey) error {
	r, err := c.OpenFile(ctx, fileID)
	if err != nil {
		return err
	}
	defer r.Close()
	if err = store.Put(ctx, key, r, newKey); err != nil {
		return fmt.Errorf("saving file %s to %v: %w", fileID, store, err)
	}
	return nil
}

// UploadFile creates a new unassigned file and uploads its contents.
//
// The reader must yield exactly size bytes.
func (c *Client) UploadFile(ctx context.Context, name, contentType string, size int64, r io.Reader) (*FileDescription, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upload, err := c.CreateFileUpload(ctx, name, contentType, size)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, upload.UploadURL, r)
	if err != nil {
		return nil, status.ErrTransfer.Wrap(err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := c.transfer.Do(req)
	if err != nil {
		return nil, status.ErrTransfer.Wrap(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, status.ErrTransfer.Wrap(fmt.Errorf("uploading %s: %s", name, resp.Status))
	}
	c.l.Debug("uploaded file", zap.String("name", name), zap.String("file", upload.File.ID))
	return &upload.File, nil
}
