package cmd

import (
	"io"
	"sort"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/deeporigin/deeporigin/pkg/storage"
	"github.com/deeporigin/deeporigin/pkg/storage/destination"
	"github.com/spf13/cobra"
)

var dataDownload = &cobra.Command{
	Use:   "download <source> <destination>",
	Short: "Download a database",
	Long: `Downloads a database to a destination, as a CSV file named after the human ID of the database.

The destination is an existing local folder, or a bucket: s3://bucket/prefix or gs://bucket/prefix.
With --include-files, the files referenced by the database are saved alongside, under their file names.`,
	Example: `% deep-origin data download deeporigin://db-sample ./downloads --include-files
saved db-sample.csv to localfs@/home/me/downloads
saved _file:V08GBdErNGqynC3O7bill as pbr322_egfr (1).gb`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client, l := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		dest, err := destination.New(ctx, args[1], destination.WithLogger(l))
		if err != nil {
			wrapFatalln("open destination "+args[1], err)
			return
		}
		dest = storage.Instrument(l, dest)

		result, err := core.Download(ctx, client, args[0], dest, coreOptions(l)...)
		if err != nil {
			wrapFatalln("download "+args[0], err)
			return
		}
		err = printOutput(result, func(_ io.Writer) error {
			infoLogger.Printf("saved %s to %v", result.Table, dest)
			ids := make([]string, 0, len(result.Files))
			for id := range result.Files {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				infoLogger.Printf("saved %s as %s", id, result.Files[id])
			}
			return nil
		})
		if err != nil {
			wrapFatalln("print download result", err)
		}
	},
}

func init() {
	addIncludeFilesFlag(dataDownload)
	addNoOverwriteFlag(dataDownload)
	addConcurrencyFactorFlag(dataDownload, 0)
	addJSONFlag(dataDownload)
	dataCmd.AddCommand(dataDownload)
}
