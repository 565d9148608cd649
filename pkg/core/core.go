// Package core implements high level operations on managed data:
// exploring the tree of workspaces, databases and rows, tabulating databases,
// downloading and uploading.
package core

import (
	"context"
	"io"

	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/deeporigin/deeporigin/pkg/storage"
)

// Prefix of managed data URIs, e.g. deeporigin://db-sample
const Prefix = "deeporigin://"

// API is the subset of the managed data client used by core operations.
//
// It is implemented by *managed.Client.
type API interface {
	ListRows(context.Context, managed.ListRowsOptions) ([]managed.Row, error)
	DescribeRow(ctx context.Context, rowID string, fields bool) (*managed.RowDescription, error)
	DescribeFile(ctx context.Context, fileID string) (*managed.FileDescription, error)
	ListDatabaseRows(ctx context.Context, databaseRowID string) ([]managed.RowDescription, error)
	ConvertIDFormat(ctx context.Context, ids, hids []string) ([]managed.IDConversion, error)
	DownloadFile(ctx context.Context, fileID string, store storage.Store, key string, newKey storage.NewKey) error
	UploadFile(ctx context.Context, name, contentType string, size int64, r io.Reader) (*managed.FileDescription, error)
}

var _ API = &managed.Client{}
