package cmd

import (
	"io"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var dataDescribe = &cobra.Command{
	Use:   "describe <id>",
	Short: "Describe a workspace, a database or a row",
	Long:  "Describes a workspace, a database with its columns, or a row with its fields.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		desc, err := client.DescribeRow(ctx, strings.TrimPrefix(args[0], core.Prefix), true)
		if err != nil {
			wrapFatalln("describe "+args[0], err)
			return
		}
		if err = printOutput(desc, func(w io.Writer) error { return printYAML(w, desc) }); err != nil {
			wrapFatalln("print description", err)
		}
	},
}

var dataDescribeFile = &cobra.Command{
	Use:   "describe-file <file-id>",
	Short: "Describe an uploaded file",
	Example: `% deep-origin data describe-file _file:V08GBdErNGqynC3O7bill
ID          	_file:V08GBdErNGqynC3O7bill
Name        	pbr322_egfr (1).gb
Status      	ready
Size        	9.757kB
Content type	
URI         	s3://deeporigin-nucleus-local-uploads/files/_file:V08GBdErNGqynC3O7bill`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		file, err := client.DescribeFile(ctx, args[0])
		if err != nil {
			wrapFatalln("describe file "+args[0], err)
			return
		}
		err = printOutput(file, func(w io.Writer) error {
			table := newTable("ID", file.ID)
			table.AddRow("Name", file.Name)
			table.AddRow("Status", file.Status)
			table.AddRow("Size", units.HumanSize(float64(file.ContentLength)))
			table.AddRow("Content type", file.ContentType)
			table.AddRow("URI", file.URI)
			infoLogger.Println(table.String())
			return nil
		})
		if err != nil {
			wrapFatalln("print file description", err)
		}
	},
}

func init() {
	addJSONFlag(dataDescribe)
	addFormatFlag(dataDescribe)
	dataCmd.AddCommand(dataDescribe)

	addJSONFlag(dataDescribeFile)
	addFormatFlag(dataDescribeFile)
	dataCmd.AddCommand(dataDescribeFile)
}
