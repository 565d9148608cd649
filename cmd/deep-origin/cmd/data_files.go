package cmd

import (
	"io"

	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var dataFiles = &cobra.Command{
	Use:   "files",
	Short: "List uploaded files",
	Long:  "Lists uploaded files, with the number of rows they are assigned to.",
	Example: `% deep-origin data files --unassigned
ID                         	NAME             	STATUS  	SIZE    	ROWS
_file:2n5jHmnbLC4tJShNrk6Df	QC report (1).pdf	archived	237.5kB 	0`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if deepOriginFlags.data.assigned && deepOriginFlags.data.unassigned {
			wrapFatalWithCodef(2, "--assigned and --unassigned are mutually exclusive")
			return
		}
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		opts := managed.ListFilesOptions{}
		switch {
		case deepOriginFlags.data.unassigned:
			unassigned := true
			opts.IsUnassigned = &unassigned
		case deepOriginFlags.data.assigned:
			unassigned := false
			opts.IsUnassigned = &unassigned
		}

		files, err := client.ListFiles(ctx, opts)
		if err != nil {
			wrapFatalln("list files", err)
			return
		}
		err = printOutput(files, func(_ io.Writer) error {
			table := newTable("ID", "NAME", "STATUS", "SIZE", "ROWS")
			for _, file := range files {
				table.AddRow(file.File.ID, file.File.Name, file.File.Status,
					units.HumanSize(float64(file.File.ContentLength)), len(file.Assignments))
			}
			infoLogger.Println(table.String())
			return nil
		})
		if err != nil {
			wrapFatalln("print files", err)
		}
	},
}

func init() {
	addUnassignedFlag(dataFiles)
	addAssignedFlag(dataFiles)
	addJSONFlag(dataFiles)
	addFormatFlag(dataFiles)
	dataCmd.AddCommand(dataFiles)
}
