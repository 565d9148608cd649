package core

import (
	"runtime"

	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"go.uber.org/zap"
)

// Option sets options for core operations
type Option func(*Settings)

// Settings defines various settings for core features
type Settings struct {
	concurrency     int
	includeRows     bool
	includeFiles    bool
	useFileNames    bool
	referenceFormat managed.IDFormat
	newKey          storage.NewKey
	l               *zap.Logger
}

var (
	defaultConcurrency = 2 * runtime.NumCPU()
)

// ConcurrentList sets the max level of concurrency to call the API or to transfer files. It defaults to 2 x #cpus.
func ConcurrentList(concurrency int) Option {
	return func(s *Settings) {
		if concurrency <= 0 {
			s.concurrency = defaultConcurrency
			return
		}
		s.concurrency = concurrency
	}
}

// IncludeRows adds the rows of databases to trees. It defaults to true.
func IncludeRows(include bool) Option {
	return func(s *Settings) {
		s.includeRows = include
	}
}

// IncludeFiles downloads the files referenced by a database along with its table
func IncludeFiles(include bool) Option {
	return func(s *Settings) {
		s.includeFiles = include
	}
}

// UseFileNames renders file cells with the name of uploaded files rather than their ID. It defaults to true.
func UseFileNames(use bool) Option {
	return func(s *Settings) {
		s.useFileNames = use
	}
}

// ReferenceFormat renders reference cells as human ids (the default) or system ids
func ReferenceFormat(format managed.IDFormat) Option {
	return func(s *Settings) {
		if format == "" {
			format = managed.HumanID
		}
		s.referenceFormat = format
	}
}

// Overwrite existing objects at the destination of downloads. It defaults to true.
func Overwrite(overwrite bool) Option {
	return func(s *Settings) {
		if overwrite {
			s.newKey = storage.OverWrite
			return
		}
		s.newKey = storage.NoOverWrite
	}
}

// Logger for core operations
func Logger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

func defaultSettings(opts []Option) Settings {
	s := Settings{
		concurrency:     defaultConcurrency,
		includeRows:     true,
		useFileNames:    true,
		referenceFormat: managed.HumanID,
		newKey:          storage.OverWrite,
		l:               zap.NewNop(),
	}
	for _, apply := range opts {
		apply(&s)
	}
	return s
}
