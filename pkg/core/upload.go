package core

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/deeporigin/deeporigin/pkg/core/status"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Upload a local file, or every file under a local folder, as new unassigned files.
//
// The created files are returned in the lexicographic order of their local paths.
func Upload(ctx context.Context, api API, fs afero.Fs, source string, opts ...Option) ([]*managed.FileDescription, error) {
	settings := defaultSettings(opts)
	if fs == nil {
		fs = afero.NewOsFs()
	}

	fi, err := fs.Stat(source)
	if err != nil {
		return nil, status.ErrInvalidSource.Wrap(err)
	}

	var paths []string
	if fi.IsDir() {
		err = afero.Walk(fs, source, func(pth string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				paths = append(paths, pth)
			}
			return nil
		})
		if err != nil {
			return nil, status.ErrInvalidSource.Wrap(err)
		}
		sort.Strings(paths)
	} else {
		paths = []string{source}
	}
	if len(paths) == 0 {
		return nil, status.ErrInvalidSource.Wrap(fmt.Errorf("no file to upload in %s", source))
	}

	var mx sync.Mutex
	uploaded := make([]*managed.FileDescription, len(paths))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(settings.concurrency)
	for i, toPin := range paths {
		index, pth := i, toPin
		group.Go(func() error {
			desc, err := uploadFile(gctx, api, fs, pth)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", pth, err)
			}
			settings.l.Debug("uploaded", zap.String("path", pth), zap.String("file", desc.ID))
			mx.Lock()
			uploaded[index] = desc
			mx.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	settings.l.Info("uploaded files", zap.String("source", source), zap.Int("files", len(uploaded)))
	return uploaded, nil
}

func uploadFile(ctx context.Context, api API, fs afero.Fs, pth string) (*managed.FileDescription, error) {
	f, err := fs.Open(pth)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return api.UploadFile(ctx, filepath.Base(pth), mime.TypeByExtension(filepath.Ext(pth)), fi.Size(), f)
}
