package core

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/deeporigin/deeporigin/pkg/core/status"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DownloadResult lists the objects written at the destination
type DownloadResult struct {
	Table string            `json:"table" yaml:"table"`
	Files map[string]string `json:"files,omitempty" yaml:"files,omitempty"`
}

// Download managed data to a destination store.
//
// The source may be prefixed by deeporigin://. Only databases may be downloaded at the moment.
func Download(ctx context.Context, api API, source string, destination storage.Store, opts ...Option) (*DownloadResult, error) {
	source = strings.TrimPrefix(source, Prefix)
	obj, err := api.DescribeRow(ctx, source, true)
	if err != nil {
		return nil, err
	}
	if obj.Type != managed.RowTypeDatabase {
		return nil, status.ErrNotImplemented.Wrap(fmt.Errorf("downloading a %s has not been implemented yet", obj.Type))
	}
	return DownloadDatabase(ctx, api, obj, destination, opts...)
}

// DownloadDatabase saves a database as <hid>.csv at the destination.
//
// With IncludeFiles, every file referenced by the database is saved alongside and file cells hold
// the key of the saved file. Otherwise file cells hold file names.
// Objects written before a failure are removed from the destination.
func DownloadDatabase(ctx context.Context, api API, db *managed.RowDescription, destination storage.Store, opts ...Option) (result *DownloadResult, err error) {
	settings := defaultSettings(opts)

	tableOpts := append(append([]Option(nil), opts...), UseFileNames(!settings.includeFiles))
	table, err := GetTable(ctx, api, db.ID, tableOpts...)
	if err != nil {
		return nil, err
	}

	written := newWrittenKeys()
	defer func() {
		if err != nil {
			written.rollback(ctx, destination, settings.l)
		}
	}()

	result = &DownloadResult{Table: db.HID + ".csv"}
	if settings.includeFiles && len(table.Attrs.FileIDs) > 0 {
		if result.Files, err = downloadFiles(ctx, api, table.Attrs.FileIDs, destination, written, settings); err != nil {
			return nil, err
		}
		table.renameFiles(result.Files)
	}

	var buf bytes.Buffer
	if err = table.WriteCSV(&buf); err != nil {
		return nil, err
	}
	if err = destination.Put(ctx, result.Table, &buf, settings.newKey); err != nil {
		return nil, fmt.Errorf("saving %s to %v: %w", result.Table, destination, err)
	}
	settings.l.Info("downloaded database",
		zap.String("database", db.HID),
		zap.Stringer("destination", destination),
		zap.Int("files", len(result.Files)),
	)
	return result, nil
}

// downloadFiles saves files under keys derived from their names. Keys are assigned by order of file id,
// before any transfer starts.
func downloadFiles(ctx context.Context, api API, fileIDs []string, destination storage.Store, written *writtenKeys, settings Settings) (map[string]string, error) {
	descs, err := describeFiles(ctx, api, fileIDs, settings)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), fileIDs...)
	sort.Strings(sorted)
	keys := make(map[string]string, len(sorted))
	taken := make(map[string]bool, len(sorted))
	for _, fileID := range sorted {
		key := fileKey(descs[fileID], taken)
		taken[key] = true
		keys[fileID] = key
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(settings.concurrency)
	for _, toPin := range sorted {
		fileID := toPin
		key := keys[fileID]
		group.Go(func() error {
			if err := api.DownloadFile(gctx, fileID, destination, key, settings.newKey); err != nil {
				return err
			}
			written.add(key)
			settings.l.Debug("downloaded file", zap.String("file", fileID), zap.String("key", key))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

// fileKey is the file name, made unique with the file id when several files share a name
func fileKey(desc *managed.FileDescription, taken map[string]bool) string {
	name := strings.ReplaceAll(path.Clean("/"+desc.Name), "/", "_")
	name = strings.TrimLeft(name, "_")
	if name == "" || name == "." {
		name = desc.ID
	}
	if !taken[name] {
		return name
	}
	return strings.ReplaceAll(desc.ID, ":", "_") + "_" + name
}

// writtenKeys tracks objects saved by a download
type writtenKeys struct {
	mx   sync.Mutex
	keys []string
}

func newWrittenKeys() *writtenKeys {
	return &writtenKeys{}
}

func (w *writtenKeys) add(key string) {
	w.mx.Lock()
	w.keys = append(w.keys, key)
	w.mx.Unlock()
}

// rollback deletes written objects. It runs even when ctx is cancelled.
func (w *writtenKeys) rollback(ctx context.Context, destination storage.Store, l *zap.Logger) {
	w.mx.Lock()
	defer w.mx.Unlock()
	cleanup := context.WithoutCancel(ctx)
	for _, key := range w.keys {
		if err := destination.Delete(cleanup, key); err != nil {
			l.Warn("could not remove partially downloaded object", zap.String("key", key), zap.Error(err))
			continue
		}
		l.Debug("removed partially downloaded object", zap.String("key", key))
	}
	w.keys = nil
}
