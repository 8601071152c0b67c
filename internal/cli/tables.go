package cli

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-starbuild/internal/pipeline"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the warehouse tables",
	Long:  `List every table a build produces, in output order, with its grain.`,
	Run: func(cmd *cobra.Command, args []string) {
		printTables(cmd.OutOrStdout())
	},
}

func printTables(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Table", "Grain", "Columns"})
	for _, t := range pipeline.Schema() {
		table.Append([]string{t.Name, t.Grain, strconv.Itoa(len(t.Columns))})
	}
	table.Render()
}
