package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dhsreport-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dhsreport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "input_dir: %s\n", c.InputDir)
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "report_name: %s\n", c.ReportName)
		fmt.Fprintf(out, "title: %s\n", c.Title)
		fmt.Fprintf(out, "label_column: %s\n", c.LabelColumn)
		fmt.Fprintf(out, "html: %t\n", c.HTML)
		fmt.Fprintf(out, "dpi: %d\n", c.DPI)
		fmt.Fprintf(out, "chart_width_in: %g\n", c.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %g\n", c.ChartHeightIn)
		fmt.Fprintln(out, "sources:")
		for _, k := range c.SourceKeys() {
			s := c.Sources[k]
			fmt.Fprintf(out, "  %s: %s [%s]\n", k, s.Workbook, s.Sheet)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: input_dir, output_dir, report_name, title, label_column, html, dpi,
chart_width_in, chart_height_in, sources.<table>.workbook, sources.<table>.sheet`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "input_dir":
		c.InputDir = val
	case "output_dir":
		c.OutputDir = val
	case "report_name":
		c.ReportName = val
	case "title":
		c.Title = val
	case "label_column":
		c.LabelColumn = val
	case "html":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for html: %w", err)
		}
		c.HTML = b
	case "dpi":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for dpi: %w", err)
		}
		c.DPI = i
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	default:
		parts := strings.Split(key, ".")
		if len(parts) != 3 || parts[0] != "sources" {
			return fmt.Errorf("unknown key: %s", key)
		}
		if c.Sources == nil {
			c.Sources = map[string]cfgpkg.SourceConfig{}
		}
		src := strings.ToLower(strings.TrimSpace(parts[1]))
		s := c.Sources[src]
		switch parts[2] {
		case "workbook":
			s.Workbook = val
		case "sheet":
			s.Sheet = val
		default:
			return fmt.Errorf("unknown key: %s (use sources.<table>.workbook or .sheet)", key)
		}
		c.Sources[src] = s
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
