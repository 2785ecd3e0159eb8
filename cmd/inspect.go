package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dhsreport-cli/internal/analysis"
	"github.com/KaramelBytes/dhsreport-cli/internal/table"
	"github.com/KaramelBytes/dhsreport-cli/internal/utils"
)

var (
	insSheet       string
	insOutputPath  string
	insLabelColumn string
	insListSheets  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show how a DHS table resolves: columns, Total row and categories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := cmd.OutOrStdout()
		if insListSheets {
			names, err := table.SheetNames(path)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		}
		label := insLabelColumn
		if label == "" {
			label = currentConfig().LabelColumn
		}
		t, err := table.Load(path, insSheet, label)
		if err != nil {
			return err
		}
		md := analysis.Inspect(t).Markdown()
		if insOutputPath == "" {
			fmt.Fprintln(out, md)
			return nil
		}
		if err := utils.SafeWriteFile(insOutputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote inspection to %s\n", insOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insSheet, "sheet", "", "workbook sheet name (first sheet if omitted)")
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the inspection")
	inspectCmd.Flags().StringVar(&insLabelColumn, "label-column", "", "row label column header (overrides config)")
	inspectCmd.Flags().BoolVar(&insListSheets, "list-sheets", false, "list workbook sheet names and exit")
}
