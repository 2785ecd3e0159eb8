package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// SourceConfig locates one input table.
type SourceConfig struct {
	Workbook string `mapstructure:"workbook" yaml:"workbook"`
	Sheet    string `mapstructure:"sheet" yaml:"sheet"`
}

// Global configuration structure.
type Global struct {
	InputDir    string `mapstructure:"input_dir" yaml:"input_dir"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	ReportName  string `mapstructure:"report_name" yaml:"report_name"`
	Title       string `mapstructure:"title" yaml:"title"`
	LabelColumn string `mapstructure:"label_column" yaml:"label_column"`
	HTML        bool   `mapstructure:"html" yaml:"html"`

	// Chart rendering
	DPI           int     `mapstructure:"dpi" yaml:"dpi"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	Sources map[string]SourceConfig `mapstructure:"sources" yaml:"sources"`
}

// DefaultSources maps each source key to the DHS export it is read from.
func DefaultSources() map[string]SourceConfig {
	return map[string]SourceConfig{
		"birthweight": {Workbook: "Tables_Size.xls", Sheet: "Size_birthweight"},
		"diarrhea":    {Workbook: "Tables_DIAR.xls", Sheet: "Diarrhea"},
		"ors":         {Workbook: "Tables_DIAR.xls", Sheet: "ORS"},
		"feeding":     {Workbook: "Tables_DIAR.xls", Sheet: "Feeding"},
		"fever":       {Workbook: "Tables_ARI_FV.xls", Sheet: "Fever"},
		"ari":         {Workbook: "Tables_ARI_FV.xls", Sheet: "ARI"},
	}
}

// Default returns the configuration used when nothing is set.
func Default() *Global {
	return &Global{
		InputDir:      "user_input_files",
		OutputDir:     "output",
		ReportName:    "Child_Health_Report.md",
		Title:         "Child Health in Cameroon: Morbidity, Treatment and Nutrition (DHS 2018)",
		LabelColumn:   "row_labels",
		DPI:           150,
		ChartWidthIn:  10,
		ChartHeightIn: 6,
		Sources:       DefaultSources(),
	}
}

// Validate rejects settings no run can use.
func (c *Global) Validate() error {
	var errs []error
	if strings.TrimSpace(c.InputDir) == "" {
		errs = append(errs, errors.New("input_dir is empty"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir is empty"))
	}
	if strings.TrimSpace(c.ReportName) == "" {
		errs = append(errs, errors.New("report_name is empty"))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.DPI))
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %gx%g", c.ChartWidthIn, c.ChartHeightIn))
	}
	for _, k := range c.SourceKeys() {
		if strings.TrimSpace(c.Sources[k].Workbook) == "" {
			errs = append(errs, fmt.Errorf("sources.%s.workbook is empty", k))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SourceKeys returns the configured source keys sorted alphabetically.
func (c *Global) SourceKeys() []string {
	keys := make([]string, 0, len(c.Sources))
	for k := range c.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// configPath resolves cfgFile or ~/.dhsreport/config.yaml.
func configPath(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dhsreport", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dhsreport/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := configPath(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DHSREPORT")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("report_name", d.ReportName)
	v.SetDefault("title", d.Title)
	v.SetDefault("label_column", d.LabelColumn)
	v.SetDefault("html", d.HTML)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("chart_width_in", d.ChartWidthIn)
	v.SetDefault("chart_height_in", d.ChartHeightIn)

	path, err := configPath(cfgFile)
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	// optional read; a file that exists must parse
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// configured sources override the defaults key by key
	merged := DefaultSources()
	for k, s := range c.Sources {
		k = strings.ToLower(k)
		base := merged[k]
		if s.Workbook != "" {
			base.Workbook = s.Workbook
		}
		if s.Sheet != "" {
			base.Sheet = s.Sheet
		}
		merged[k] = base
	}
	c.Sources = merged
	return &c, nil
}
