package cmd

import (
	"io"
	"os"

	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/spf13/cobra"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the configuration",
	Long: `Commands to manage the configuration of the Deep Origin CLI.

The configuration holds the settings that do not change across runs, such as the organization
to work with. It is read from ` + config.DefaultUserFile() + ` or ` + config.UserFiles()[1] + `,
whichever is found first. The ` + config.EnvConfigFile + ` environment variable names an additional file,
and any key may be overridden by an environment variable such as ` + config.EnvName(config.KeyOrganizationID) + `.
`,
}

// configFileLocation is the file updated by "config set"
func configFileLocation() string {
	if deepOriginFlags.root.configFile != "" {
		return deepOriginFlags.root.configFile
	}
	if file := os.Getenv(config.EnvConfigFile); file != "" {
		return file
	}
	return config.DefaultUserFile()
}

var configShow = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration",
	Long: `Show the configuration resolved from defaults, configuration files and environment variables.

The client secret is masked.`,
	Example: `% deep-origin config show --format '{{ .OrganizationID }}'
my-org`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg == nil {
			return
		}
		shown := cfg.Redacted()
		err := printOutput(shown, func(w io.Writer) error {
			if source := shown.Source(); source != "" {
				infoLogger.Printf("# read from %s", source)
			}
			return printYAML(w, shown)
		})
		if err != nil {
			wrapFatalln("print configuration", err)
		}
	},
}

func init() {
	addJSONFlag(configShow)
	addFormatFlag(configShow)
	configCmd.AddCommand(configShow)
	rootCmd.AddCommand(configCmd)
}
