package multihead

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
)

// BuildLayout lays out the columns of the record type root, described by
// cat, with the given overrides. Overrides passed through WithColumns are
// applied after columns.
//
// Every configuration problem is reported here, before anything is written
// to a sink.
func BuildLayout(cat Catalog, root any, columns []Column, opts ...Option) (*Layout, error) {
	cfg := newConfig(append([]Option{WithColumns(columns...)}, opts...))
	cfg.catalog = cat
	return buildLayout(cfg, root)
}

// LayoutOf lays out the Go struct type T.
func LayoutOf[T any](opts ...Option) (*Layout, error) {
	cfg := newConfig(opts)
	return buildLayout(cfg, reflect.TypeFor[T]())
}

func buildLayout(cfg *config, root any) (*Layout, error) {
	if err := cfg.resolve(root); err != nil {
		return nil, err
	}
	b := &builder{catalog: cfg.catalog, logger: cfg.logger, active: make(map[any]bool)}
	lv, err := b.buildLevel(root, "", cfg.columns, cfg.startCol, 1)
	if err != nil {
		return nil, err
	}
	if lv.width == 0 {
		return nil, configErrorf("", "record type has no columns to render")
	}
	l := &Layout{
		Columns:     lv.nodes,
		Height:      lv.height,
		Width:       lv.width,
		StartRow:    cfg.startRow,
		StartColumn: cfg.startCol,
		Fields:      lv.fields,
	}
	cfg.logger.Debug("layout built", "columns", l.Width, "header_rows", l.Height, "top_level", len(l.Columns))
	return l, nil
}

// resolve fills in the catalog and accessor that match the root type when
// the caller did not choose them.
func (c *config) resolve(root any) error {
	switch root.(type) {
	case reflect.Type:
		if c.catalog == nil {
			c.catalog = ReflectCatalog{}
		}
		if c.accessor == nil {
			c.accessor = ReflectAccessor{}
		}
	case *Schema:
		if c.catalog == nil {
			c.catalog = SchemaCatalog{}
		}
		if c.accessor == nil {
			c.accessor = JSONAccessor{}
		}
	}
	if c.catalog == nil {
		return configErrorf("", "no catalog for record type %T", root)
	}
	if c.accessor == nil {
		c.accessor = ReflectAccessor{}
	}
	return nil
}

type builder struct {
	catalog Catalog
	logger  *log.Logger
	active  map[any]bool // record types on the current recursion path
}

// level is the placed column sequence of one record type.
type level struct {
	nodes  []*Node
	width  int
	height int
	fields map[string]Field
}

func (b *builder) buildLevel(t any, prefix string, columns []Column, col, depth int) (*level, error) {
	if t != nil && reflect.TypeOf(t).Comparable() {
		if b.active[t] {
			return nil, configErrorf(prefix, "record type %v contains itself", t)
		}
		b.active[t] = true
		defer delete(b.active, t)
	}

	fields, err := b.catalog.Fields(t)
	if err != nil {
		if prefix == "" {
			return nil, err
		}
		return nil, fmt.Errorf("fields of %q: %w", prefix, err)
	}
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	direct, forwarded, err := partition(prefix, columns, byName)
	if err != nil {
		return nil, err
	}
	slots, err := resolveOrder(prefix, direct, fields)
	if err != nil {
		return nil, err
	}

	lv := &level{height: depth, fields: byName}
	for _, s := range slots {
		n, err := b.place(s, prefix, forwarded[s.name], col, depth, byName)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		lv.height = max(lv.height, nodeHeight(n))
		lv.nodes = append(lv.nodes, n)
		lv.width += n.Span
		col += n.Span
	}
	renumber(lv.nodes)
	return lv, nil
}

// partition splits the overrides addressed to this level from the ones
// forwarded to nested records, keyed by the field they are forwarded to.
func partition(prefix string, columns []Column, fields map[string]Field) ([]Column, map[string][]Column, error) {
	var direct []Column
	forwarded := make(map[string][]Column)
	seen := make(map[string]bool)
	for _, c := range columns {
		full := joinPath(prefix, c.Path)
		if _, err := SplitPath(full); err != nil {
			return nil, nil, err
		}
		if err := c.validate(full); err != nil {
			return nil, nil, err
		}

		if !strings.Contains(c.Path, ".") {
			if seen[c.Path] {
				return nil, nil, configErrorf(full, "column declared more than once")
			}
			seen[c.Path] = true
			_, ok := fields[c.Path]
			switch {
			case ok && c.IsVirtual():
				return nil, nil, configErrorf(full, "virtual column collides with a field of the same name")
			case !ok && !c.IsVirtual():
				return nil, nil, configErrorf(full, "no backing field and no compute function or formula")
			}
			direct = append(direct, c)
			continue
		}

		head, rest := c.forward()
		f, ok := fields[head]
		if !ok {
			return nil, nil, configErrorf(full, "no field %q", joinPath(prefix, head))
		}
		if f.Kind != KindRecord && (f.Kind != KindMultiValue || f.Elem == nil) {
			return nil, nil, configErrorf(full, "field %q is a %s and has no nested columns", joinPath(prefix, head), f.Kind)
		}
		forwarded[head] = append(forwarded[head], rest)
	}
	return direct, forwarded, nil
}

// place builds the node for one slot at grid column col. A nil node means
// the slot renders nothing.
func (b *builder) place(s slot, prefix string, fwd []Column, col, depth int, fields map[string]Field) (*Node, error) {
	n := &Node{
		Name:      s.name,
		Path:      joinPath(prefix, s.name),
		Depth:     depth,
		GridIndex: col,
		Span:      1,
	}
	if s.field != nil {
		n.Field = *s.field
		n.Style = s.field.Style
	}
	if c := s.column; c != nil {
		n.DisplayName = c.DisplayName
		n.Hidden = c.Hidden || c.Width.Kind == WidthHidden
		n.ColumnWidth = c.Width
		if c.Style != "" {
			n.Style = c.Style
		}
	}

	switch {
	case s.field == nil:
		n.Category = Dynamic
		n.dynamic = &dynamic{compute: s.column.Compute, formula: s.column.Formula}
	case s.column != nil && len(s.column.Keys) > 0, s.field.Kind == KindMultiValue:
		if err := b.placeMulti(n, s, fwd); err != nil {
			return nil, err
		}
	case s.field.Kind == KindRecord:
		child, err := b.buildLevel(s.field.Type, n.Path, fwd, col, depth+1)
		if err != nil {
			return nil, err
		}
		if child.width == 0 {
			b.logger.Debug("record column has no visible fields, skipping", "path", n.Path)
			return nil, nil
		}
		n.Category = NestedRecord
		n.Children = child.nodes
		n.Span = child.width
	default:
		n.Category = Scalar
	}

	if s.column != nil && s.column.Link != "" {
		if !n.IsLeaf() {
			return nil, configErrorf(n.Path, "hyperlinks are only supported on single-cell columns")
		}
		target, ok := fields[s.column.Link]
		if !ok {
			return nil, configErrorf(n.Path, "link field %q does not exist", joinPath(prefix, s.column.Link))
		}
		if target.Kind == KindRecord || target.Kind == KindMultiValue {
			return nil, configErrorf(n.Path, "link field %q is a %s", joinPath(prefix, s.column.Link), target.Kind)
		}
		n.link = &link{field: s.column.Link, strict: s.column.StrictLink}
	}
	return n, nil
}

func (b *builder) placeMulti(n *Node, s slot, fwd []Column) error {
	switch s.field.Kind {
	case KindMultiValue, KindRecord:
	default:
		return configErrorf(n.Path, "keys declared on a %s field", s.field.Kind)
	}
	if s.column == nil || len(s.column.Keys) == 0 {
		return configErrorf(n.Path, "multi-value field needs a declared key list")
	}
	if _, ok := s.field.Type.(reflect.Type); ok && s.field.Kind == KindRecord {
		return configErrorf(n.Path, "keys declared on a struct field; use a map or slice")
	}

	keys := dedupe(s.column.Keys)
	mv := &multiValue{keys: keys, offset: make(map[string]int, len(keys))}
	n.Category = MultiValue
	n.multi = mv

	elem := s.field.Elem
	if s.field.Kind == KindRecord {
		elem = nil
	}
	if elem == nil {
		if len(fwd) > 0 {
			return configErrorf(joinPath(n.Path, fwd[0].Path), "multi-value field %q has no nested columns", n.Path)
		}
		for i, k := range keys {
			mv.offset[k] = i
		}
		mv.subWidth = 1
		n.Span = len(keys)
		return nil
	}

	off := 0
	for _, k := range keys {
		sub, err := b.buildLevel(elem, joinPath(n.Path, k), fwd, n.GridIndex+off, n.Depth+2)
		if err != nil {
			return err
		}
		if sub.width == 0 {
			return configErrorf(n.Path, "multi-value records have no visible fields")
		}
		mv.offset[k] = off
		mv.sub = append(mv.sub, sub.nodes)
		mv.subWidth = sub.width
		mv.subHeight = sub.height
		off += sub.width
	}
	n.Span = off
	return nil
}

// nodeHeight returns the deepest header row, relative to the layout top,
// that the node's column group reaches.
func nodeHeight(n *Node) int {
	switch n.Category {
	case NestedRecord:
		h := n.Depth
		for _, c := range n.Children {
			h = max(h, nodeHeight(c))
		}
		return h
	case MultiValue:
		if n.multi.sub != nil {
			return n.multi.subHeight
		}
		return n.Depth + 1
	default:
		return n.Depth
	}
}
