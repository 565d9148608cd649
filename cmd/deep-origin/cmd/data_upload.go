package cmd

import (
	"io"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/docker/go-units"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// used to patch over the local file system during test
var uploadFs = afero.NewOsFs()

var dataUpload = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload local files",
	Long:  "Uploads a local file, or every file under a local folder. Uploaded files are not assigned to any row.",
	Example: `% deep-origin data upload ./reads
ID                   	NAME    	SIZE
_file:Qm3Zk2YdT0pX7a1	reads.fa	1.2MB`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, l := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		files, err := core.Upload(ctx, client, uploadFs, args[0], coreOptions(l)...)
		if err != nil {
			wrapFatalln("upload "+args[0], err)
			return
		}
		err = printOutput(files, func(_ io.Writer) error {
			table := newTable("ID", "NAME", "SIZE")
			for _, file := range files {
				table.AddRow(file.ID, file.Name, units.HumanSize(float64(file.ContentLength)))
			}
			infoLogger.Println(table.String())
			return nil
		})
		if err != nil {
			wrapFatalln("print uploaded files", err)
		}
	},
}

func init() {
	addConcurrencyFactorFlag(dataUpload, 0)
	addJSONFlag(dataUpload)
	addFormatFlag(dataUpload)
	dataCmd.AddCommand(dataUpload)
}
