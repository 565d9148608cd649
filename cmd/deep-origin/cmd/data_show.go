package cmd

import (
	"io"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/spf13/cobra"
)

func printTable(w io.Writer, table *core.Table) error {
	if deepOriginFlags.data.csv {
		return table.WriteCSV(w)
	}
	headers := make([]interface{}, 0, len(table.Columns))
	for _, col := range table.Columns {
		headers = append(headers, col)
	}
	out := newTable(headers...)
	for _, record := range table.Records {
		values := record.Values()
		line := make([]interface{}, 0, len(values))
		for _, value := range values {
			line = append(line, value.String())
		}
		out.AddRow(line...)
	}
	infoLogger.Println(out.String())
	return nil
}

var dataShow = &cobra.Command{
	Use:   "show <database-id>",
	Short: "Show the rows of a database as a table",
	Long: `Shows the rows of a database as a table.

The first column holds the human ID of rows, followed by their validation status and by the columns of the database.
File cells show file names and reference cells the human IDs of referenced rows, unless --system-ids is set.
Cells with several values are joined with ", ".`,
	Example: `% deep-origin data show db-sample --csv
sample,Validation Status,Order ID,Status,To client tracking,Sent to client,Raw reads,Reads
sample-1,valid,order-1,Ordered,1Z999AA10123456784,,"pbr322_egfr (1).gb, sequence_preprocessing.pdf",42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, l := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		table, err := core.GetTable(ctx, client, args[0], coreOptions(l)...)
		if err != nil {
			wrapFatalln("get table", err)
			return
		}
		if err = printOutput(table, func(w io.Writer) error { return printTable(w, table) }); err != nil {
			wrapFatalln("print table", err)
		}
	},
}

func init() {
	addCSVFlag(dataShow)
	addSystemIDsFlag(dataShow)
	addConcurrencyFactorFlag(dataShow, 0)
	addJSONFlag(dataShow)
	addFormatFlag(dataShow)
	dataCmd.AddCommand(dataShow)
}
