package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/multihead"
	"github.com/bjaus/multihead/xlsx"
)

const (
	defaultSheet = "Sheet1"
	defaultStart = "A1"
)

// reportConfig is the on-disk report description. TOML files use
// [[column]] tables; YAML files a "column" list.
type reportConfig struct {
	Name         string             `toml:"name" yaml:"name"`
	Title        string             `toml:"title" yaml:"title"`
	Caption      string             `toml:"caption" yaml:"caption"`
	Format       string             `toml:"format" yaml:"format"`
	Border       string             `toml:"border" yaml:"border"`
	Sheet        string             `toml:"sheet" yaml:"sheet"`
	Start        string             `toml:"start" yaml:"start"`
	AppendAt     int                `toml:"append_at" yaml:"append_at"`
	AutoFilter   *bool              `toml:"autofilter" yaml:"autofilter"`
	DiscoverKeys bool               `toml:"discover_keys" yaml:"discover_keys"`
	Columns      []multihead.Column `toml:"column" yaml:"column"`
}

var borders = map[string]multihead.BorderStyle{
	"rounded": multihead.BorderRounded,
	"none":    multihead.BorderNone,
	"ascii":   multihead.BorderASCII,
	"heavy":   multihead.BorderHeavy,
	"double":  multihead.BorderDouble,
}

// loadConfig reads a report file, picking the decoder by extension. An empty
// path yields the defaults.
func loadConfig(path string) (*reportConfig, error) {
	cfg := &reportConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decodeConfig(filepath.Ext(path), data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func decodeConfig(ext string, data []byte, cfg *reportConfig) error {
	switch strings.ToLower(ext) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config extension %q (use .toml, .yaml or .yml)", ext)
	}
}

func (c *reportConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = "record"
	}
	if c.Format == "" {
		c.Format = string(multihead.Table)
	}
	if c.Sheet == "" {
		c.Sheet = defaultSheet
	}
	if c.Start == "" {
		c.Start = defaultStart
	}
}

func (c *reportConfig) autoFilter() bool {
	return c.AutoFilter == nil || *c.AutoFilter
}

// options converts the config into report options. columns replaces the
// configured overrides when key discovery added some.
func (c *reportConfig) options(columns []multihead.Column) ([]multihead.Option, error) {
	row, col, err := xlsx.ParseCell(c.Start)
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", c.Start, err)
	}
	opts := []multihead.Option{
		multihead.WithColumns(columns...),
		multihead.WithStart(row, col),
		multihead.WithAutoFilter(c.autoFilter()),
	}
	if c.AppendAt > 0 {
		opts = append(opts, multihead.WithAppendAt(c.AppendAt))
	}
	if c.Title != "" {
		opts = append(opts, multihead.WithTitle(c.Title))
	}
	if c.Caption != "" {
		opts = append(opts, multihead.WithCaption(c.Caption))
	}
	if c.Border != "" {
		b, ok := borders[strings.ToLower(c.Border)]
		if !ok {
			return nil, fmt.Errorf("unknown border %q", c.Border)
		}
		opts = append(opts, multihead.WithBorder(b))
	}
	return opts, nil
}
