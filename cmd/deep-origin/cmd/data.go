package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/deeporigin/deeporigin/pkg/auth"
	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dataCmd represents the managed data related commands
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Commands to explore, download and upload managed data",
	Long: `Commands to explore, download and upload managed data.

Managed data is organized as a tree: workspaces hold workspaces and databases, and databases hold rows.
Objects are designated by their system ID (e.g. _row:W6DjtaCrZ201EGLpmZtGO) or by their human ID
(e.g. sample-1), optionally prefixed by ` + core.Prefix + `.

Managed data commands require an organization_id in the configuration and a prior "deep-origin authenticate".
`,
}

// used to patch over the managed data client during test
var newClient = func(cfg *config.Config, l *zap.Logger) (*managed.Client, error) {
	if err := cfg.Require(config.KeyOrganizationID); err != nil {
		return nil, err
	}
	tokens := auth.NewTokenSource(auth.FromConfig(cfg, auth.Logger(l)), auth.NewTokenCache(cfg.APITokensFilename))
	return managed.FromConfig(cfg, tokens,
		managed.Logger(l),
		managed.UserAgent("deep-origin/"+NewVersionInfo().Version),
	)
}

// getClient builds a managed data client. It returns nil after reporting a fatal error.
func getClient() (*managed.Client, *zap.Logger) {
	cfg := loadConfig()
	if cfg == nil {
		return nil, nil
	}
	l := getLogger()
	client, err := newClient(cfg, l)
	if err != nil {
		wrapFatalln("create managed data client", err)
		return nil, nil
	}
	return client, l
}

func coreOptions(l *zap.Logger) []core.Option {
	opts := []core.Option{
		core.Logger(l),
		core.ConcurrentList(deepOriginFlags.data.concurrencyFactor),
		core.IncludeRows(deepOriginFlags.data.includeRows),
		core.IncludeFiles(deepOriginFlags.data.includeFiles),
		core.Overwrite(!deepOriginFlags.data.noOverwrite),
	}
	if deepOriginFlags.data.systemIDs {
		opts = append(opts, core.UseFileNames(false), core.ReferenceFormat(managed.SystemID))
	}
	return opts
}

// newContext is cancelled on SIGINT, so that pending transfers stop
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func init() {
	rootCmd.AddCommand(dataCmd)
}
