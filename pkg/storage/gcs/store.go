// Copyright © 2024 Deep Origin

// Package gcs stores objects in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"fmt"
	"io"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/status"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcs struct {
	client     *gcsStorage.Client
	bucket     string
	prefix     string
	credFile   string
	clientOpts []option.ClientOption
	l          *zap.Logger
}

// New GCS store. Credentials default to GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, bucket string, opts ...Option) (storage.Store, error) {
	if bucket == "" {
		return nil, status.ErrInvalidResource.Wrap(fmt.Errorf("a gcs bucket is required"))
	}
	googleStore := &gcs{
		bucket: bucket,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(googleStore)
	}

	clientOpts := []option.ClientOption{option.WithScopes(gcsStorage.ScopeReadWrite)}
	if googleStore.credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(googleStore.credFile))
	}
	clientOpts = append(clientOpts, googleStore.clientOpts...)

	var err error
	googleStore.client, err = gcsStorage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return googleStore, nil
}

func (g *gcs) String() string {
	return "gs://" + storage.JoinKey(g.bucket, g.prefix)
}

func (g *gcs) object(key string) *gcsStorage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(storage.JoinKey(g.prefix, key))
}

func (g *gcs) Has(ctx context.Context, key string) (bool, error) {
	_, err := g.object(key).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if err = toSentinelErrors(err); errors.Is(err, status.ErrNotExists) {
		return false, nil
	}
	return false, err
}

func (g *gcs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	objectReader, err := g.object(key).NewReader(ctx)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return objectReader, nil
}

func (g *gcs) Put(ctx context.Context, key string, reader io.Reader, newKey storage.NewKey) error {
	handle := g.object(key)
	if newKey == storage.NoOverWrite {
		handle = handle.If(gcsStorage.Conditions{DoesNotExist: true})
	}
	writer := handle.NewWriter(ctx)
	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		return toSentinelErrors(err)
	}
	err := toSentinelErrors(writer.Close())
	g.l.Debug("gcs upload", zap.String("bucket", g.bucket), zap.String("key", key), zap.Error(err))
	return err
}

func (g *gcs) Delete(ctx context.Context, key string) error {
	err := toSentinelErrors(g.object(key).Delete(ctx))
	if errors.Is(err, status.ErrNotExists) {
		return nil
	}
	return err
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	query := &gcsStorage.Query{}
	if prefix := storage.JoinKey(g.prefix, ""); prefix != "" {
		query.Prefix = prefix + "/"
	}
	if err := query.SetAttrSelection([]string{"Name"}); err != nil {
		return nil, err
	}

	var keys []string
	objects := g.client.Bucket(g.bucket).Objects(ctx, query)
	for {
		attrs, err := objects.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, toSentinelErrors(err)
		}
		keys = append(keys, storage.TrimKey(g.prefix, attrs.Name))
	}
	return keys, nil
}

func (g *gcs) Clear(ctx context.Context) error {
	keys, err := g.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err = g.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
