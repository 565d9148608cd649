// Copyright © 2024 Deep Origin

package cmd

import (
	"github.com/deeporigin/deeporigin/pkg/dlogger"
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		logLevel       string
		configFile     string
		organizationID string
	}
	output struct {
		json   bool
		format string
	}
	config struct {
		benchID string
		env     string
	}
	auth struct {
		refresh bool
	}
	data struct {
		includeRows       bool
		includeFiles      bool
		unassigned        bool
		assigned          bool
		systemIDs         bool
		csv               bool
		noOverwrite       bool
		concurrencyFactor int
	}
	doc struct {
		docTarget string
	}
}

var deepOriginFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&deepOriginFlags.root.logLevel, logLevel, dlogger.LogLevelError,
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return logLevel
}

func addConfigFileFlag(cmd *cobra.Command) string {
	configFile := "config-file"
	cmd.PersistentFlags().StringVar(&deepOriginFlags.root.configFile, configFile, "",
		"An explicit configuration file, applied over the user configuration")
	return configFile
}

func addOrganizationIDFlag(cmd *cobra.Command) string {
	organizationID := "organization-id"
	cmd.PersistentFlags().StringVar(&deepOriginFlags.root.organizationID, organizationID, "",
		"The Deep Origin organization to work with. Overrides the configured organization_id")
	return organizationID
}

func addJSONFlag(cmd *cobra.Command) string {
	j := "json"
	cmd.Flags().BoolVar(&deepOriginFlags.output.json, j, false, "Print the output as JSON")
	return j
}

func addFormatFlag(cmd *cobra.Command) string {
	format := "format"
	cmd.Flags().StringVar(&deepOriginFlags.output.format, format, "",
		`Pretty-print objects using a Go template. Use '{{ printf "%#v" . }}' to explore available fields`)
	return format
}

func addBenchIDFlag(cmd *cobra.Command) string {
	benchID := "bench-id"
	cmd.Flags().StringVar(&deepOriginFlags.config.benchID, benchID, "", "The ID of the workstation")
	return benchID
}

func addEnvFlag(cmd *cobra.Command) string {
	env := "env"
	cmd.Flags().StringVar(&deepOriginFlags.config.env, env, "", "The Deep Origin environment, e.g. prod")
	return env
}

func addRefreshFlag(cmd *cobra.Command) string {
	refresh := "refresh"
	cmd.Flags().BoolVar(&deepOriginFlags.auth.refresh, refresh, false,
		"Refresh the cached access token instead of running a new device authorization")
	return refresh
}

func addIncludeRowsFlag(cmd *cobra.Command) string {
	includeRows := "include-rows"
	cmd.Flags().BoolVar(&deepOriginFlags.data.includeRows, includeRows, true, "Include the rows of databases")
	return includeRows
}

func addIncludeFilesFlag(cmd *cobra.Command) string {
	includeFiles := "include-files"
	cmd.Flags().BoolVar(&deepOriginFlags.data.includeFiles, includeFiles, false,
		"Also download the files referenced by the database")
	return includeFiles
}

func addUnassignedFlag(cmd *cobra.Command) string {
	unassigned := "unassigned"
	cmd.Flags().BoolVar(&deepOriginFlags.data.unassigned, unassigned, false, "Only list files not assigned to any row")
	return unassigned
}

func addAssignedFlag(cmd *cobra.Command) string {
	assigned := "assigned"
	cmd.Flags().BoolVar(&deepOriginFlags.data.assigned, assigned, false, "Only list files assigned to some row")
	return assigned
}

func addSystemIDsFlag(cmd *cobra.Command) string {
	systemIDs := "system-ids"
	cmd.Flags().BoolVar(&deepOriginFlags.data.systemIDs, systemIDs, false,
		"Show system IDs of files and referenced rows, instead of file names and human IDs")
	return systemIDs
}

func addCSVFlag(cmd *cobra.Command) string {
	c := "csv"
	cmd.Flags().BoolVar(&deepOriginFlags.data.csv, c, false, "Print the table as CSV")
	return c
}

func addNoOverwriteFlag(cmd *cobra.Command) string {
	noOverwrite := "no-overwrite"
	cmd.Flags().BoolVar(&deepOriginFlags.data.noOverwrite, noOverwrite, false,
		"Fail rather than overwrite existing objects at the destination")
	return noOverwrite
}

func addConcurrencyFactorFlag(cmd *cobra.Command, defaultConcurrency int) string {
	concurrency := "concurrency-factor"
	cmd.Flags().IntVar(&deepOriginFlags.data.concurrencyFactor, concurrency, defaultConcurrency,
		"Maximum number of concurrent API calls or file transfers")
	return concurrency
}

func addTargetFlag(cmd *cobra.Command) string {
	target := "target-dir"
	cmd.Flags().StringVar(&deepOriginFlags.doc.docTarget, target, ".", "The target directory for the generated documentation")
	return target
}
