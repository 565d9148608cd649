package cmd

import (
	"io"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/spf13/cobra"
)

var dataList = &cobra.Command{
	Use:     "ls [id]",
	Aliases: []string{"list"},
	Short:   "List the children of a workspace or a database",
	Long:    "Lists the workspaces, databases or rows directly under some object. Without an ID, lists the root objects.",
	Example: `% deep-origin data ls db-sample
HID     	TYPE	NAME	ID
sample-2	row 	    	_row:0sJjiHf18ZtdzRyt1uKY5
sample-1	row 	    	_row:W6DjtaCrZ201EGLpmZtGO`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		opts := managed.ListRowsOptions{}
		if len(args) == 0 {
			isRoot := true
			opts.ParentIsRoot = &isRoot
		} else {
			parent, err := client.DescribeRow(ctx, strings.TrimPrefix(args[0], core.Prefix), false)
			if err != nil {
				wrapFatalln("describe "+args[0], err)
				return
			}
			opts.ParentID = parent.ID
		}

		rows, err := client.ListRows(ctx, opts)
		if err != nil {
			wrapFatalln("list rows", err)
			return
		}
		err = printOutput(rows, func(w io.Writer) error {
			table := newTable("HID", "TYPE", "NAME", "ID")
			for _, row := range rows {
				table.AddRow(row.HID, row.Type, optional(row.Name), row.ID)
			}
			infoLogger.Println(table.String())
			return nil
		})
		if err != nil {
			wrapFatalln("print rows", err)
		}
	},
}

func init() {
	addJSONFlag(dataList)
	addFormatFlag(dataList)
	dataCmd.AddCommand(dataList)
}
