package gcs

import (
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Option is a functor to pass optional parameters to the gcs store
type Option func(*gcs)

// Logger specifies a logger for this store
func Logger(logger *zap.Logger) Option {
	return func(g *gcs) {
		if logger != nil {
			g.l = logger
		}
	}
}

// Prefix of all keys in the bucket
func Prefix(prefix string) Option {
	return func(g *gcs) {
		g.prefix = prefix
	}
}

// CredentialsFile with a service account key
func CredentialsFile(file string) Option {
	return func(g *gcs) {
		g.credFile = file
	}
}

// ClientOptions passed to the google storage client
func ClientOptions(opts ...option.ClientOption) Option {
	return func(g *gcs) {
		g.clientOpts = append(g.clientOpts, opts...)
	}
}
