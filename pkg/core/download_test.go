package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/localfs"
	storagestatus "github.com/deeporigin/deeporigin/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sameNameAPI serves a database whose single row references files that all share a name.
// Operations not needed by downloads are left to the nil embedded API.
type sameNameAPI struct {
	API
	fileIDs []string
	failing string
}

func (a *sameNameAPI) DescribeRow(context.Context, string, bool) (*managed.RowDescription, error) {
	return &managed.RowDescription{
		ID:        "_row:db",
		HID:       "db",
		Type:      managed.RowTypeDatabase,
		HIDPrefix: "r",
		Cols: []managed.Column{
			{ID: "_col:files", Name: "Files", Type: managed.DataTypeFile, Cardinality: managed.CardinalityMany},
		},
	}, nil
}

func (a *sameNameAPI) ListDatabaseRows(context.Context, string) ([]managed.RowDescription, error) {
	return []managed.RowDescription{{
		ID:   "_row:r1",
		HID:  "r1",
		Type: managed.RowTypeRow,
		Fields: []managed.Field{
			{ColumnID: "_col:files", Value: managed.FieldValue{FileIDs: a.fileIDs}},
		},
	}}, nil
}

func (a *sameNameAPI) DescribeFile(_ context.Context, fileID string) (*managed.FileDescription, error) {
	return &managed.FileDescription{ID: fileID, Name: "same.txt"}, nil
}

func (a *sameNameAPI) DownloadFile(ctx context.Context, fileID string, store storage.Store, key string, newKey storage.NewKey) error {
	if fileID == a.failing {
		return fmt.Errorf("boom")
	}
	return store.Put(ctx, key, bytes.NewBufferString(fileID), newKey)
}

func TestDownloadFilesSharingAName(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		api := &sameNameAPI{fileIDs: []string{"_file:c", "_file:a", "_file:b"}}
		fs := afero.NewMemMapFs()
		dest := localfs.New(fs)

		result, err := Download(context.Background(), api, "db", dest, IncludeFiles(true), ConcurrentList(concurrency))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"_file:a": "same.txt",
			"_file:b": "_file_b_same.txt",
			"_file:c": "_file_c_same.txt",
		}, result.Files)

		for fileID, key := range result.Files {
			b, err := afero.ReadFile(fs, key)
			require.NoError(t, err)
			assert.Equal(t, fileID, string(b))
		}

		csv, err := afero.ReadFile(fs, "db.csv")
		require.NoError(t, err)
		assert.Equal(t, "r,Validation Status,Files\nr1,,\"_file_c_same.txt, same.txt, _file_b_same.txt\"\n", string(csv))
	}
}

func TestDownloadRemovesPartialFiles(t *testing.T) {
	api := &sameNameAPI{fileIDs: []string{"_file:a", "_file:b", "_file:c"}, failing: "_file:c"}
	fs := afero.NewMemMapFs()
	dest := localfs.New(fs)
	require.NoError(t, afero.WriteFile(fs, "keep.txt", []byte("mine"), 0600))

	_, err := Download(context.Background(), api, "db", dest, IncludeFiles(true), ConcurrentList(1))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "boom"))

	keys, err := dest.Keys(context.Background())
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"keep.txt"}, keys)
}

func TestDownloadKeepsExistingFiles(t *testing.T) {
	api := &sameNameAPI{fileIDs: []string{"_file:a", "_file:b"}}
	fs := afero.NewMemMapFs()
	dest := localfs.New(fs)
	require.NoError(t, afero.WriteFile(fs, "_file_b_same.txt", []byte("mine"), 0600))

	_, err := Download(context.Background(), api, "db", dest, IncludeFiles(true), ConcurrentList(1), Overwrite(false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, storagestatus.ErrExists), "got %v", err)

	b, err := afero.ReadFile(fs, "_file_b_same.txt")
	require.NoError(t, err)
	assert.Equal(t, "mine", string(b), "objects that were there before the download are left untouched")
	has, err := dest.Has(context.Background(), "same.txt")
	require.NoError(t, err)
	assert.False(t, has)
}
