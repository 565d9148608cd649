package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/deeporigin/deeporigin/pkg/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func printTree(w io.Writer, tree *core.Node) error {
	return tree.Walk(func(node *core.Node, depth int) error {
		line := strings.Repeat("  ", depth) + node.HID + " " + colorType(node.Type)
		if name := optional(node.Name); name != "" && name != node.HID {
			line += " " + color.HiBlackString(name)
		}
		_, err := fmt.Fprintln(w, line)
		return err
	})
}

var dataTree = &cobra.Command{
	Use:   "tree",
	Short: "Show the tree of managed data",
	Long: `Shows the tree of workspaces, databases and, unless --include-rows=false, rows.

The organization must hold exactly one root workspace.`,
	Example: `% deep-origin data tree
sandbox workspace Demo Sandbox
  db-sample database Sample
    sample-1 row
    sample-2 row`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, l := getClient()
		if client == nil {
			return
		}
		ctx, cancel := newContext()
		defer cancel()

		tree, err := core.GetTree(ctx, client, coreOptions(l)...)
		if err != nil {
			wrapFatalln("list managed data", err)
			return
		}
		if err = printOutput(tree, func(w io.Writer) error { return printTree(w, tree) }); err != nil {
			wrapFatalln("print tree", err)
		}
	},
}

func init() {
	addIncludeRowsFlag(dataTree)
	addJSONFlag(dataTree)
	addFormatFlag(dataTree)
	dataCmd.AddCommand(dataTree)
}
