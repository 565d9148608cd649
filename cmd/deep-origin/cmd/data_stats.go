package cmd

import (
	"io"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/spf13/cobra"
)

var dataStats = &cobra.Command{
	Use:   "stats <database-id>",
	Short: "Show statistics about a database",
	Example: `% deep-origin data stats db-sample
rows: 5`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		stats, err := client.DescribeDatabaseStats(ctx, strings.TrimPrefix(args[0], core.Prefix))
		if err != nil {
			wrapFatalln("describe database stats", err)
			return
		}
		err = printOutput(stats, func(_ io.Writer) error {
			infoLogger.Printf("rows: %d", stats.RowCount)
			return nil
		})
		if err != nil {
			wrapFatalln("print database stats", err)
		}
	},
}

func init() {
	addJSONFlag(dataStats)
	addFormatFlag(dataStats)
	dataCmd.AddCommand(dataStats)
}
