// Copyright © 2024 Deep Origin

package storage

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
)

// Instrument a store so that every call is logged at debug level
func Instrument(logger *zap.Logger, store Store) Store {
	if logger == nil {
		return store
	}
	return &instrumentedStore{
		store: store,
		l:     logger.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store Store
	l     *zap.Logger
}

func (i *instrumentedStore) done(op string, t0 time.Time, err error, fields ...zap.Field) {
	fields = append(fields, zap.Duration("elapsed", time.Since(t0)))
	if err != nil {
		i.l.Debug("storage "+op+" failed", append(fields, zap.Error(err))...)
		return
	}
	i.l.Debug("storage "+op, fields...)
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (has bool, err error) {
	defer func(t0 time.Time) { i.done("has", t0, err, zap.String("key", key), zap.Bool("has", has)) }(time.Now())
	return i.store.Has(ctx, key)
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (r io.ReadCloser, err error) {
	defer func(t0 time.Time) { i.done("get", t0, err, zap.String("key", key)) }(time.Now())
	return i.store.Get(ctx, key)
}

func (i *instrumentedStore) Put(ctx context.Context, key string, rdr io.Reader, newKey NewKey) (err error) {
	defer func(t0 time.Time) { i.done("put", t0, err, zap.String("key", key)) }(time.Now())
	return i.store.Put(ctx, key, rdr, newKey)
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) (err error) {
	defer func(t0 time.Time) { i.done("delete", t0, err, zap.String("key", key)) }(time.Now())
	return i.store.Delete(ctx, key)
}

func (i *instrumentedStore) Keys(ctx context.Context) (keys []string, err error) {
	defer func(t0 time.Time) { i.done("keys", t0, err, zap.Int("count", len(keys))) }(time.Now())
	return i.store.Keys(ctx)
}

func (i *instrumentedStore) Clear(ctx context.Context) (err error) {
	defer func(t0 time.Time) { i.done("clear", t0, err) }(time.Now())
	return i.store.Clear(ctx)
}
