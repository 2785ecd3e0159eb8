package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dhsreport-cli/internal/analysis"
	"github.com/KaramelBytes/dhsreport-cli/internal/report"
)

var (
	genInputDir  string
	genOutputDir string
	genReport    string
	genHTML      bool
	genDPI       int
	genQuiet     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the figures and write the child health report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		f := cmd.Flags()
		if f.Changed("input-dir") {
			c.InputDir = genInputDir
		}
		if f.Changed("output-dir") {
			c.OutputDir = genOutputDir
		}
		if f.Changed("report") {
			c.ReportName = genReport
		}
		if f.Changed("html") {
			c.HTML = genHTML
		}
		if f.Changed("dpi") {
			c.DPI = genDPI
		}
		if err := c.Validate(); err != nil {
			return err
		}

		res, err := analysis.Run(cmd.Context(), analysis.OptionsFromConfig(&c), logger)
		if err != nil {
			return err
		}
		if genQuiet {
			return nil
		}
		out := cmd.OutOrStdout()
		for _, id := range res.Figures {
			fmt.Fprintf(out, "✓ Saved %s\n", id)
		}
		for _, id := range report.Figures() {
			if reason, ok := res.Skipped[id]; ok {
				fmt.Fprintf(out, "⚠ Skipped %s: %s\n", id, reason)
			}
		}
		fmt.Fprintf(out, "✓ Report written to %s (%d/%d figures)\n", res.ReportPath, len(res.Figures), len(report.Figures()))
		if res.HTMLPath != "" {
			fmt.Fprintf(out, "✓ HTML written to %s\n", res.HTMLPath)
		}
		fmt.Fprintf(out, "✓ Manifest written to %s\n", res.ManifestPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&genInputDir, "input-dir", "", "directory holding the DHS workbooks (overrides config)")
	generateCmd.Flags().StringVar(&genOutputDir, "output-dir", "", "directory for figures, report and manifest (overrides config)")
	generateCmd.Flags().StringVar(&genReport, "report", "", "report file name inside the output directory (overrides config)")
	generateCmd.Flags().BoolVar(&genHTML, "html", false, "also write an HTML copy of the report")
	generateCmd.Flags().IntVar(&genDPI, "dpi", 0, "figure resolution in dots per inch (overrides config)")
	generateCmd.Flags().BoolVarP(&genQuiet, "quiet", "q", false, "suppress progress output")
}
