package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/spf13/cobra"
)

var dataRow = &cobra.Command{
	Use:   "row <row-id>",
	Short: "Show the fields of a row",
	Long: `Shows the fields of a row, keyed by column name.

Select cells show their selected options, file cells the IDs of their files and reference cells
the IDs of the referenced rows.`,
	Example: `% deep-origin data row sample-2
Raw reads:
- _file:V08GBdErNGqynC3O7bill
Status: Sample processed by CRO`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		data, err := core.GetRowData(ctx, client, args[0])
		if err != nil {
			wrapFatalln("get row data", err)
			return
		}
		if err = printOutput(data, func(w io.Writer) error { return printYAML(w, data) }); err != nil {
			wrapFatalln("print row data", err)
		}
	},
}

var dataCell = &cobra.Command{
	Use:   "cell <row-id> <column>",
	Short: "Show the value of a cell",
	Long:  "Shows the value of a cell, designated by a row and the name of a column. Lists print one value per line.",
	Example: `% deep-origin data cell sample-2 Status
Sample processed by CRO`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		value, err := core.GetCellData(ctx, client, args[0], args[1])
		if err != nil {
			wrapFatalln("get cell data", err)
			return
		}
		err = printOutput(value, func(w io.Writer) error {
			switch v := value.(type) {
			case nil:
			case []string:
				infoLogger.Println(strings.Join(v, "\n"))
			default:
				infoLogger.Println(fmt.Sprint(v))
			}
			return nil
		})
		if err != nil {
			wrapFatalln("print cell data", err)
		}
	},
}

func printColumns(columns *core.Columns) {
	if columns.Type == managed.RowTypeDatabase {
		table := newTable("NAME", "TYPE", "CARDINALITY", "ID")
		for _, col := range columns.Cols {
			table.AddRow(col.Name, col.Type, col.Cardinality, col.ID)
		}
		infoLogger.Println(table.String())
		return
	}
	table := newTable("COLUMN ID", "TYPE", "VALUE")
	for _, field := range columns.Fields {
		table.AddRow(field.ColumnID, field.Type, strings.Join(field.Value.Strings(), ", "))
	}
	infoLogger.Println(table.String())
}

var dataColumns = &cobra.Command{
	Use:   "columns <id>",
	Short: "Show the columns of a database, or the fields of a row",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		columns, err := core.GetColumns(ctx, client, args[0])
		if err != nil {
			wrapFatalln("get columns", err)
			return
		}
		err = printOutput(columns, func(_ io.Writer) error {
			printColumns(columns)
			return nil
		})
		if err != nil {
			wrapFatalln("print columns", err)
		}
	},
}

func init() {
	for _, cmd := range []*cobra.Command{dataRow, dataCell, dataColumns} {
		addJSONFlag(cmd)
		addFormatFlag(cmd)
		dataCmd.AddCommand(cmd)
	}
}
