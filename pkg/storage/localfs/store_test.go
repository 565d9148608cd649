// Copyright © 2024 Deep Origin

package localfs

import (
	"bytes"
	"context"
	"io"
	"sort"
	"testing"

	"github.com/deeporigin/deeporigin/internal/rand"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	bs := setupStore(t)

	has, err := bs.Has(context.Background(), "sample-1.csv")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "files/reads.fa")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "sample-2.csv")
	require.NoError(t, err)
	require.False(t, has)

	has, err = bs.Has(context.Background(), "files")
	require.NoError(t, err)
	require.False(t, has, "folders are not objects")
}

func TestGet(t *testing.T) {
	bs := setupStore(t)

	rdr, err := bs.Get(context.Background(), "sample-1.csv")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "sample,Validation Status\n", string(b))

	_, err = bs.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestPutLargeObject(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()
	payload := rand.Bytes(3 << 20)
	key := "db-" + rand.LetterString(8) + "/files/reads.bam"

	require.NoError(t, bs.Put(ctx, key, bytes.NewReader(payload), storage.OverWrite))

	rdr, err := bs.Get(ctx, key)
	require.NoError(t, err)
	defer func() { _ = rdr.Close() }()
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, b))

	has, err := bs.Has(ctx, key+partialSuffix)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestKeys(t *testing.T) {
	bs := setupStore(t)

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"files/reads.fa", "sample-1.csv"}, keys)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Delete(context.Background(), "sample-1.csv"))
	require.NoError(t, bs.Delete(context.Background(), "never-there"))
	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 1)
}

func TestClear(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Clear(context.Background()))
	k, _ := bs.Keys(context.Background())
	require.Empty(t, k)
}

func TestPut(t *testing.T) {
	fs := afero.NewMemMapFs()
	bs := New(fs)
	ctx := context.Background()

	err := bs.Put(ctx, "db-sample/files/QC report.pdf", bytes.NewBufferString("here we go once again"), storage.NoOverWrite)
	require.NoError(t, err)

	rdr, err := bs.Get(ctx, "db-sample/files/QC report.pdf")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "here we go once again", string(b))

	exists, err := afero.Exists(fs, "db-sample/files/QC report.pdf"+partialSuffix)
	require.NoError(t, err)
	assert.False(t, exists, "partial files are renamed into place")

	err = bs.Put(ctx, "db-sample/files/QC report.pdf", bytes.NewBufferString("again"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, bs.Put(ctx, "db-sample/files/QC report.pdf", bytes.NewBufferString("again"), storage.OverWrite))
	b, err = afero.ReadFile(fs, "db-sample/files/QC report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "again", string(b))

	k, _ := bs.Keys(ctx)
	assert.Len(t, k, 1)
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs", New(afero.NewMemMapFs()).String())
	assert.Contains(t, New(afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())).String(), "localfs@")
}

func setupStore(t testing.TB) storage.Store {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sample-1.csv", []byte("sample,Validation Status\n"), 0600))
	require.NoError(t, fs.MkdirAll("files", 0700))
	require.NoError(t, afero.WriteFile(fs, "files/reads.fa", []byte("ACGT\n"), 0600))

	return New(fs)
}
