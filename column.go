package multihead

import (
	"fmt"
	"slices"
	"strings"
)

// Column overrides how one field, or one virtual column, is laid out and
// rendered. Path is the dotted field path from the record root ("a.b.c").
//
// A Column with Compute or Formula set declares a virtual column with no
// backing field. A Column with Keys set declares a multi-value field. Link
// names a sibling field whose value is used as the cell's hyperlink target.
type Column struct {
	Path        string   `toml:"path" yaml:"path"`
	Order       int      `toml:"order" yaml:"order"` // 1-based; 0 leaves the column in declaration order
	DisplayName string   `toml:"display_name" yaml:"display_name"`
	Ignore      bool     `toml:"ignore" yaml:"ignore"`
	Hidden      bool     `toml:"hidden" yaml:"hidden"`
	Style       string   `toml:"style" yaml:"style"`
	Width       Width    `toml:"width" yaml:"width"`
	Keys        []string `toml:"keys" yaml:"keys"`
	Formula     string   `toml:"formula" yaml:"formula"` // "{row}" is replaced with the current grid row
	Link        string   `toml:"link" yaml:"link"`
	StrictLink  bool     `toml:"strict_link" yaml:"strict_link"`

	// Compute derives the cell value from the record at the column's level.
	Compute func(record any) (any, error) `toml:"-" yaml:"-"`
}

// IsVirtual reports whether the column has no backing field.
func (c Column) IsVirtual() bool { return c.Compute != nil || c.Formula != "" }

// Name returns the last segment of the column path.
func (c Column) Name() string {
	if i := strings.LastIndexByte(c.Path, '.'); i >= 0 {
		return c.Path[i+1:]
	}
	return c.Path
}

// Depth returns the number of segments in the column path.
func (c Column) Depth() int { return strings.Count(c.Path, ".") + 1 }

// SplitPath splits a dotted field path into its segments. Empty paths and
// empty segments are rejected.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, configErrorf(path, "empty column path")
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if strings.TrimSpace(s) == "" {
			return nil, configErrorf(path, "empty path segment")
		}
	}
	return segs, nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// forward returns a copy of c addressed relative to its first path segment.
func (c Column) forward() (head string, rest Column) {
	head, tail, _ := strings.Cut(c.Path, ".")
	rest = c
	rest.Path = tail
	return head, rest
}

func (c Column) validate(full string) error {
	if c.Order < 0 {
		return configErrorf(full, "order must be 1 or greater, got %d", c.Order)
	}
	if c.Compute != nil && c.Formula != "" {
		return configErrorf(full, "column has both a compute function and a formula")
	}
	if c.IsVirtual() && len(c.Keys) > 0 {
		return configErrorf(full, "virtual column cannot declare multi-value keys")
	}
	if err := c.Width.validate(full); err != nil {
		return err
	}
	return nil
}

// dedupe returns keys with duplicates removed, first occurrence kept.
func dedupe(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// WidthKind selects how a column's physical width is set.
type WidthKind int

const (
	WidthDefault WidthKind = iota // leave the sink's default
	WidthCustom                   // fixed width in Value
	WidthAuto                     // fit the content, clamped to Min and Max when set
	WidthHidden                   // hide the column
)

var widthKindNames = map[WidthKind]string{
	WidthDefault: "default",
	WidthCustom:  "custom",
	WidthAuto:    "auto",
	WidthHidden:  "hidden",
}

// String returns the width kind name.
func (k WidthKind) String() string {
	if s, ok := widthKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("WidthKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k WidthKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *WidthKind) UnmarshalText(b []byte) error {
	for kind, name := range widthKindNames {
		if strings.EqualFold(string(b), name) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown width kind %q", b)
}

// Width is a physical column width hint forwarded to the grid sink.
type Width struct {
	Kind  WidthKind `toml:"kind" yaml:"kind"`
	Value float64   `toml:"value" yaml:"value"`
	Min   float64   `toml:"min" yaml:"min"`
	Max   float64   `toml:"max" yaml:"max"`
}

// Fixed returns a custom width.
func Fixed(v float64) Width { return Width{Kind: WidthCustom, Value: v} }

// Auto returns a content-fitted width clamped to [min, max]. A zero bound is
// ignored.
func Auto(minWidth, maxWidth float64) Width {
	return Width{Kind: WidthAuto, Min: minWidth, Max: maxWidth}
}

// Clamp limits v to the width's bounds.
func (w Width) Clamp(v float64) float64 {
	if w.Min > 0 && v < w.Min {
		v = w.Min
	}
	if w.Max > 0 && v > w.Max {
		v = w.Max
	}
	return v
}

func (w Width) validate(path string) error {
	switch {
	case w.Kind == WidthCustom && w.Value <= 0:
		return configErrorf(path, "custom width must be positive, got %g", w.Value)
	case w.Min < 0, w.Max < 0:
		return configErrorf(path, "width bounds must not be negative")
	case w.Max > 0 && w.Min > w.Max:
		return configErrorf(path, "minimum width %g exceeds maximum %g", w.Min, w.Max)
	}
	return nil
}
