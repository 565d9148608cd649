// Package testenv selects the managed data client used by tests.
//
// Tests run against canned responses by default. Run them against a live
// instance with:
//
//	go test ./pkg/managed/... ./pkg/core/... -args -client=default
//
// (or make test client=default)
//
// which uses the configuration and cached tokens of the current user.
package testenv

import (
	"context"
	"flag"
	"testing"

	"github.com/deeporigin/deeporigin/internal/mockapi"
	"github.com/deeporigin/deeporigin/pkg/auth"
	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/stretchr/testify/require"
)

const (
	// Mock selects canned responses
	Mock = "mock"
	// Default selects the live instance
	Default = "default"
)

var client = flag.String("client", Mock, "managed data client used by tests: mock or default")

// Live tells if tests run against a live instance
func Live() bool {
	return *client == Default
}

// Sample lists objects tests may exercise
type Sample struct {
	Databases []string
	Rows      []string
}

// Client for tests, with a sample of existing databases and rows.
// The mock API is nil when running live.
func Client(t testing.TB, files *mockapi.FileServer, opts ...managed.Option) (*managed.Client, *mockapi.API, Sample) {
	t.Helper()
	if !Live() {
		var filesURL string
		if files != nil {
			filesURL = files.URL
		}
		api := mockapi.New(filesURL)
		opts = append([]managed.Option{managed.WithInvoker(api)}, opts...)
		if files != nil {
			opts = append(opts, managed.HTTPClient(files.Client()))
		}
		return managed.New(opts...), api, Sample{
			Databases: []string{mockapi.DatabaseHID},
			Rows:      []string{mockapi.Row1HID},
		}
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Require(config.KeyOrganizationID))

	tokens := auth.NewTokenSource(auth.FromConfig(cfg), auth.NewTokenCache(cfg.APITokensFilename))
	c, err := managed.FromConfig(cfg, tokens, opts...)
	require.NoError(t, err)

	ctx := context.Background()
	var sample Sample
	databases, err := c.ListRows(ctx, managed.ListRowsOptions{RowType: managed.RowTypeDatabase})
	require.NoError(t, err)
	for _, db := range databases {
		sample.Databases = append(sample.Databases, db.HID)
	}
	rows, err := c.ListRows(ctx, managed.ListRowsOptions{RowType: managed.RowTypeRow})
	require.NoError(t, err)
	for _, row := range rows {
		sample.Rows = append(sample.Rows, row.HID)
	}
	if len(sample.Databases) == 0 || len(sample.Rows) == 0 {
		t.Skip("the live instance has no database or row to test with")
	}
	return c, nil, sample
}
