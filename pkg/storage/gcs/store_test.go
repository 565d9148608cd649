// Copyright © 2024 Deep Origin

package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/deeporigin/deeporigin/internal/rand"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

// set this variable to a writable test bucket to run tests against GCS
const envTestBucket = "DEEP_ORIGIN_TEST_GCS_BUCKET"

func TestToSentinelErrors(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		err      error
		expected error
	}{
		{name: "object", err: gcsStorage.ErrObjectNotExist, expected: status.ErrNotExists},
		{name: "wrapped object", err: fmt.Errorf("reading: %w", gcsStorage.ErrObjectNotExist), expected: status.ErrNotExists},
		{name: "bucket", err: gcsStorage.ErrBucketNotExist, expected: status.ErrNotFound},
		{name: "invalid bucket", err: &googleapi.Error{Code: 400, Body: "bucket is not valid"}, expected: status.ErrInvalidResource},
		{name: "bad request", err: &googleapi.Error{Code: 400}, expected: status.ErrStorageAPI},
		{name: "unauthorized", err: &googleapi.Error{Code: 401}, expected: status.ErrUnauthorized},
		{name: "forbidden", err: &googleapi.Error{Code: 403}, expected: status.ErrForbidden},
		{name: "not found", err: &googleapi.Error{Code: 404}, expected: status.ErrNotFound},
		{name: "precondition", err: &googleapi.Error{Code: 412}, expected: status.ErrExists},
		{name: "server", err: &googleapi.Error{Code: 503}, expected: status.ErrStorageAPI},
	} {
		testCase := toPin
		t.Run(testCase.name, func(t *testing.T) {
			assert.True(t, errors.Is(toSentinelErrors(testCase.err), testCase.expected))
		})
	}
	assert.NoError(t, toSentinelErrors(nil))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}

func TestStore(t *testing.T) {
	bucket := os.Getenv(envTestBucket)
	if bucket == "" {
		t.Skipf("set %s to run tests against GCS", envTestBucket)
	}
	ctx := context.Background()
	prefix := "deleteme-deep-origin-test-" + rand.LetterString(15)
	gs, err := New(ctx, bucket, Prefix(prefix)) // Use GOOGLE_APPLICATION_CREDENTIALS env variable
	require.NoError(t, err, "failed to create gcs client")
	defer func() {
		assert.NoError(t, gs.Clear(ctx))
	}()

	require.NoError(t, gs.Put(ctx, "db/a.csv", bytes.NewBufferString("a"), storage.NoOverWrite))
	err = gs.Put(ctx, "db/a.csv", bytes.NewBufferString("b"), storage.NoOverWrite)
	assert.True(t, errors.Is(err, status.ErrExists))

	has, err := gs.Has(ctx, "db/a.csv")
	require.NoError(t, err)
	assert.True(t, has)

	rdr, err := gs.Get(ctx, "db/a.csv")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "a", string(b))

	keys, err := gs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"db/a.csv"}, keys)

	require.NoError(t, gs.Delete(ctx, "db/a.csv"))
	has, err = gs.Has(ctx, "db/a.csv")
	require.NoError(t, err)
	assert.False(t, has)
}
