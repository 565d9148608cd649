package sthree

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "deep-origin-exports"

// fakeS3 serves a single path-style bucket
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

type listResult struct {
	XMLName     xml.Name `xml:"http://s3.amazonaws.com/doc/2006-03-01/ ListBucketResult"`
	Name        string   `xml:"Name"`
	IsTruncated bool     `xml:"IsTruncated"`
	Contents    []struct {
		Key  string `xml:"Key"`
		Size int    `xml:"Size"`
	} `xml:"Contents"`
}

func (f *fakeS3) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	return b, ok
}

func (f *fakeS3) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := strings.TrimPrefix(r.URL.Path, "/")
	if !strings.HasPrefix(p, testBucket) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<Error><Code>NoSuchBucket</Code><Message>no such bucket</Message></Error>`)
		return
	}
	key := strings.TrimPrefix(strings.TrimPrefix(p, testBucket), "/")

	switch {
	case key == "" && r.Method == http.MethodGet:
		prefix := r.URL.Query().Get("prefix")
		res := listResult{Name: testBucket}
		keys := make([]string, 0, len(f.objects))
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			res.Contents = append(res.Contents, struct {
				Key  string `xml:"Key"`
				Size int    `xml:"Size"`
			}{Key: k, Size: len(f.objects[k])})
		}
		w.Header().Set("Content-Type", "application/xml")
		_ = xml.NewEncoder(w).Encode(res)

	case r.Method == http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[key] = b
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodHead:
		b, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(b)))
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodGet:
		b, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = w.Write(b)

	case r.Method == http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func setupStore(t testing.TB, prefix string) (storage.Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{
		"sixteentons":        []byte("this is the text"),
		"exports/db/a.csv":   []byte("a"),
		"exports/db/files/b": []byte("b"),
	}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	bs, err := New(
		Bucket(testBucket),
		Prefix(prefix),
		AWSConfig(&aws.Config{
			Endpoint:         aws.String(server.URL),
			Region:           aws.String("us-east-1"),
			S3ForcePathStyle: aws.Bool(true),
			DisableSSL:       aws.Bool(true),
			Credentials:      credentials.NewStaticCredentials("id", "secret", ""),
			MaxRetries:       aws.Int(0),
		}),
	)
	require.NoError(t, err)
	return bs, fake
}

func TestNewAppliesAWSConfig(t *testing.T) {
	bs, err := New(
		Bucket(testBucket),
		AWSConfig(aws.NewConfig().
			WithRegion("eu-west-3").
			WithEndpoint("http://127.0.0.1:9000").
			WithCredentials(credentials.NewStaticCredentials("id", "secret", ""))),
	)
	require.NoError(t, err)
	fs, ok := bs.(*s3FS)
	require.True(t, ok)
	assert.Equal(t, "eu-west-3", aws.StringValue(fs.s3.Config.Region))
	assert.Equal(t, "http://127.0.0.1:9000", aws.StringValue(fs.s3.Config.Endpoint))

	_, err = New(AWSConfig(aws.NewConfig()))
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}

func TestHas(t *testing.T) {
	bs, _ := setupStore(t, "")

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "fifteentons")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs, _ := setupStore(t, "")

	rdr, err := bs.Get(context.Background(), "sixteentons")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(context.Background(), "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists), "got %v", err)
}

func TestPutWithPrefix(t *testing.T) {
	bs, fake := setupStore(t, "exports/db")
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "files/QC report.pdf", bytes.NewBufferString("pdf"), storage.NoOverWrite))
	b, ok := fake.object("exports/db/files/QC report.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("pdf"), b)

	err := bs.Put(ctx, "a.csv", bytes.NewBufferString("again"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	keys, err := bs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "files/QC report.pdf", "files/b"}, keys)
	assert.Equal(t, "s3://deep-origin-exports/exports/db", bs.String())
}

func TestDeleteAndClear(t *testing.T) {
	bs, fake := setupStore(t, "exports")
	ctx := context.Background()

	require.NoError(t, bs.Delete(ctx, "db/a.csv"))
	_, ok := fake.object("exports/db/a.csv")
	assert.False(t, ok)

	require.NoError(t, bs.Clear(ctx))
	assert.Equal(t, 1, fake.count(), "objects outside of the prefix are kept")
}

func TestToSentinelErrors(t *testing.T) {
	for _, toPin := range []struct {
		code     int
		awsCode  string
		expected error
	}{
		{code: 400, awsCode: "InvalidBucketName", expected: status.ErrInvalidResource},
		{code: 400, awsCode: "BadDigest", expected: status.ErrStorageAPI},
		{code: 401, awsCode: "Unauthorized", expected: status.ErrUnauthorized},
		{code: 403, awsCode: "AccessDenied", expected: status.ErrForbidden},
		{code: 404, awsCode: "NoSuchKey", expected: status.ErrNotExists},
		{code: 404, awsCode: "NoSuchBucket", expected: status.ErrNotFound},
		{code: 500, awsCode: "InternalError", expected: status.ErrStorageAPI},
	} {
		testCase := toPin
		t.Run(testCase.awsCode, func(t *testing.T) {
			err := toSentinelErrors(awserr.NewRequestFailure(awserr.New(testCase.awsCode, "msg", nil), testCase.code, "req"))
			assert.True(t, errors.Is(err, testCase.expected))
		})
	}
	assert.NoError(t, toSentinelErrors(nil))
}
