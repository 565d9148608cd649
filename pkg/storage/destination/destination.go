// Copyright © 2024 Deep Origin

// Package destination opens the store designated by a URI.
//
// Supported URIs:
//   - s3://bucket/prefix
//   - gs://bucket/prefix
//   - file:///some/folder, or any local path to an existing folder
package destination

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/gcs"
	"github.com/deeporigin/deeporigin/pkg/storage/localfs"
	"github.com/deeporigin/deeporigin/pkg/storage/sthree"
	"github.com/deeporigin/deeporigin/pkg/storage/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// URI schemes
const (
	SchemeFile = "file"
	SchemeS3   = "s3"
	SchemeGCS  = "gs"
)

type options struct {
	fs          afero.Fs
	awsConfig   *aws.Config
	credentials string
	l           *zap.Logger
}

// Option for destinations
type Option func(*options)

// WithFs sets the file system of local destinations
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithAWSConfig sets the configuration of S3 destinations
func WithAWSConfig(cfg *aws.Config) Option {
	return func(o *options) { o.awsConfig = cfg }
}

// WithCredentials sets a service account key for GCS destinations
func WithCredentials(file string) Option {
	return func(o *options) { o.credentials = file }
}

// WithLogger for the store
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}

// Parse a destination URI into a scheme, a bucket or folder, and a key prefix
func Parse(uri string) (scheme, location, prefix string, err error) {
	if uri == "" {
		return "", "", "", status.ErrInvalidResource.Wrap(fmt.Errorf("a destination is required"))
	}
	if !strings.Contains(uri, "://") {
		return SchemeFile, uri, "", nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", "", "", status.ErrInvalidResource.Wrap(err)
	}
	switch u.Scheme {
	case SchemeFile:
		return SchemeFile, filepath.FromSlash(u.Host + u.Path), "", nil
	case SchemeS3, SchemeGCS:
		if u.Host == "" {
			return "", "", "", status.ErrInvalidResource.Wrap(fmt.Errorf("no bucket in %q", uri))
		}
		return u.Scheme, u.Host, strings.Trim(u.Path, "/"), nil
	default:
		return "", "", "", status.ErrNotSupported.Wrap(fmt.Errorf("unsupported scheme %q in %q", u.Scheme, uri))
	}
}

// New store at the destination URI. Local destinations must be existing folders.
func New(ctx context.Context, uri string, opts ...Option) (storage.Store, error) {
	o := &options{fs: afero.NewOsFs(), l: zap.NewNop()}
	for _, apply := range opts {
		apply(o)
	}

	scheme, location, prefix, err := Parse(uri)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case SchemeS3:
		return sthree.New(sthree.Bucket(location), sthree.Prefix(prefix), sthree.AWSConfig(o.awsConfig), sthree.Logger(o.l))
	case SchemeGCS:
		return gcs.New(ctx, location, gcs.Prefix(prefix), gcs.CredentialsFile(o.credentials), gcs.Logger(o.l))
	default:
		fi, err := o.fs.Stat(location)
		switch {
		case os.IsNotExist(err):
			return nil, status.ErrNotExists.Wrap(fmt.Errorf("destination %s does not exist", location))
		case err != nil:
			return nil, err
		case !fi.IsDir():
			return nil, status.ErrInvalidResource.Wrap(fmt.Errorf("destination %s is not a folder", location))
		}
		return localfs.New(afero.NewBasePathFs(o.fs, location)), nil
	}
}
