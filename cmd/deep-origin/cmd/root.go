// Copyright © 2024 Deep Origin

package cmd

import (
	"fmt"
	"log"

	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/deeporigin/deeporigin/pkg/dlogger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deep-origin",
	Short: "Deep Origin CLI",
	Long: `The Deep Origin CLI authenticates to the Deep Origin platform and manages data:
it explores workspaces, databases and rows, downloads databases with their files
and uploads local files.

Configuration is read from ` + config.DefaultUserFile() + `, or from the file named by the
` + config.EnvConfigFile + ` environment variable. Any key may be overridden by an environment variable
prefixed with ` + config.EnvPrefix + `_.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Usage()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)

	rootCmd.Version = NewVersionInfo().Version
	rootCmd.SetVersionTemplate(`{{ .Name }} version {{ .Version }}` + "\n")

	addLogLevelFlag(rootCmd)
	addConfigFileFlag(rootCmd)
	addOrganizationIDFlag(rootCmd)
}

// readConfig loads the configuration and applies the flags that override it
func readConfig() (*config.Config, error) {
	var opts []config.Option
	if deepOriginFlags.root.configFile != "" {
		opts = append(opts, config.WithFile(deepOriginFlags.root.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if deepOriginFlags.root.organizationID != "" {
		cfg.OrganizationID = deepOriginFlags.root.organizationID
	}
	return cfg, nil
}

// loadConfig reads the configuration, then applies overrides from the command line.
// It returns nil after reporting a fatal error.
func loadConfig() *config.Config {
	cfg, err := readConfig()
	if err != nil {
		wrapFatalln("failed to load configuration", err)
		return nil
	}
	return cfg
}

func getLogger() *zap.Logger {
	l, err := dlogger.GetLogger(deepOriginFlags.root.logLevel)
	if err != nil {
		wrapFatalln("failed to set log level", err)
		return zap.NewNop()
	}
	return l
}
