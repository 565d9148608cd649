package cmd

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags at build time
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the build of the CLI and the platform it is configured for
type VersionInfo struct {
	Version      string `json:"version,omitempty"`
	BuildDate    string `json:"buildDate,omitempty"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GitState     string `json:"gitState,omitempty"`
	APIEndpoint  string `json:"apiEndpoint,omitempty"`
	Organization string `json:"organizationId,omitempty"`
}

// NewVersionInfo returns the build information, with "dev" as the version of unreleased builds
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}
	if Version != "" {
		ver.Version = Version
		ver.GitState = "clean"
	}
	if GitState != "" {
		ver.GitState = GitState
	}
	return ver
}

// withPlatform adds the configured platform to the build information.
// A configuration that cannot be read leaves the platform fields empty.
func (v VersionInfo) withPlatform() VersionInfo {
	cfg, err := readConfig()
	if err != nil {
		return v
	}
	v.Organization = cfg.OrganizationID
	if endpoint, err := cfg.NucleusURL(); err == nil {
		v.APIEndpoint = endpoint
	}
	return v
}

func (v VersionInfo) String() string {
	orNone := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}
	table := uitable.New()
	table.AddRow("Version:", v.Version)
	table.AddRow("Build date:", v.BuildDate)
	table.AddRow("Commit:", v.GitCommit)
	table.AddRow("Working tree:", v.GitState)
	table.AddRow("API endpoint:", orNone(v.APIEndpoint))
	table.AddRow("Organization:", orNone(v.Organization))
	return table.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version of deep-origin and the platform it talks to",
	Long: `Prints the version of deep-origin. It includes the following components:
	* Semver (output of git describe --tags)
	* Build Date (date at which the binary was built)
	* Git Commit (the git commit hash this binary was built from)
	* Git State (when dirty there were uncommitted changes during the build)
	* API endpoint and organization resolved from the configuration
`,
	Run: func(cmd *cobra.Command, args []string) {
		info := NewVersionInfo().withPlatform()
		if err := printOutput(info, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, info.String())
			return err
		}); err != nil {
			wrapFatalln("print version", err)
		}
	},
}

func init() {
	addJSONFlag(versionCmd)
	addFormatFlag(versionCmd)
	rootCmd.AddCommand(versionCmd)
}
