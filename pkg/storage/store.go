// Copyright © 2024 Deep Origin

package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// NewKey tells a store whether Put may replace an existing object
type NewKey bool

const (
	// NoOverWrite makes Put fail with status.ErrExists when the key is already present
	NoOverWrite NewKey = true

	// OverWrite replaces any existing object
	OverWrite NewKey = false
)

// Store implementations know how to write entries to a K/V storage.
//
// Typically this is something file system-like: a local folder, an S3 or GCS bucket.
// Keys are slash-separated relative paths.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, NewKey) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// JoinKey builds a slash-separated key under some prefix
func JoinKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	key = strings.TrimLeft(key, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

// TrimKey removes a prefix from a key
func TrimKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
}
