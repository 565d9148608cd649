package cmd

import (
	"fmt"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var configSet = &cobra.Command{
	Use:   "set [key=value...]",
	Short: "Create or update the user configuration file",
	Long: `Creates or updates the user configuration file. Keys that are not set are left untouched.

By default, the configuration file is ` + config.DefaultUserFile() + `.
Use the ` + config.EnvConfigFile + ` environment variable or the --config-file flag to change this target.

Known keys: ` + strings.Join(config.Keys(), ", ") + `.
`,
	Example: `# Set the organization and the workstation
% deep-origin config set --organization-id my-org --bench-id my-bench
config file updated in /home/me/.deep-origin/config.yml

# Set any key
% deep-origin config set max_requests_per_second=5 feature_flags.variables=true
config file updated in /home/me/.deep-origin/config.yml
`,
	Run: func(cmd *cobra.Command, args []string) {
		values := make(map[string]string, len(args)+3)
		if deepOriginFlags.root.organizationID != "" {
			values[config.KeyOrganizationID] = deepOriginFlags.root.organizationID
		}
		if deepOriginFlags.config.benchID != "" {
			values[config.KeyBenchID] = deepOriginFlags.config.benchID
		}
		if deepOriginFlags.config.env != "" {
			values[config.KeyEnv] = deepOriginFlags.config.env
		}
		for _, arg := range args {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 || parts[0] == "" {
				wrapFatalln(fmt.Sprintf("expected key=value, got %q", arg), nil)
				return
			}
			values[parts[0]] = parts[1]
		}
		if len(values) == 0 {
			wrapFatalln("nothing to set: pass key=value arguments or flags", nil)
			return
		}

		file := configFileLocation()
		if err := config.Set(afero.NewOsFs(), file, values); err != nil {
			wrapFatalln("could not update config file "+file, err)
			return
		}
		if _, err := config.Load(config.WithFile(file)); err != nil {
			wrapFatalln("the updated config file "+file+" is not valid", err)
			return
		}
		infoLogger.Printf("config file updated in %s", file)
	},
}

func init() {
	addBenchIDFlag(configSet)
	addEnvFlag(configSet)
	configCmd.AddCommand(configSet)
}
