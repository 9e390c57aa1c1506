package multihead

import (
	"fmt"
	"slices"
)

// Category is the rendering variant of a Node.
type Category int

const (
	Scalar       Category = iota // one cell read from the record
	NestedRecord                 // a header group over the nested record's columns
	MultiValue                   // one column per declared key
	Dynamic                      // computed value or formula, no backing field
)

var categoryNames = map[Category]string{
	Scalar:       "scalar",
	NestedRecord: "record",
	MultiValue:   "multi-value",
	Dynamic:      "dynamic",
}

// String returns the category name.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Node is one rendered column group of a Layout.
//
// Children is only populated for NestedRecord nodes. The multi-value key
// list and the dynamic column source are carried by the node's category
// payload and read through Keys, Formula and Computed.
type Node struct {
	Name        string
	Path        string // dotted path from the record root
	Depth       int    // header row offset, 1 for top-level columns
	DisplayName string
	Order       int // final 1-based position among siblings
	Hidden      bool
	Style       string
	ColumnWidth Width
	Category    Category
	Children    []*Node
	GridIndex   int // first grid column, 1-based
	Span        int // grid columns consumed
	Field       Field

	multi   *multiValue
	dynamic *dynamic
	link    *link
}

type multiValue struct {
	keys   []string
	offset map[string]int
	// Set when each key's value is itself a record. sub[i] is the column
	// tree under keys[i], already placed at its absolute grid columns.
	sub       [][]*Node
	subWidth  int
	subHeight int
}

type dynamic struct {
	compute func(any) (any, error)
	formula string
}

type link struct {
	field  string
	strict bool
}

// Label returns the header text of the node.
func (n *Node) Label() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.Name
}

// IsLeaf reports whether the node writes its own data cells.
func (n *Node) IsLeaf() bool {
	return n.Category == Scalar || n.Category == Dynamic
}

// Keys returns the declared keys of a MultiValue node.
func (n *Node) Keys() []string {
	if n.multi == nil {
		return nil
	}
	return n.multi.keys
}

// KeyNodes returns the column tree laid out under the i-th key of a
// MultiValue node whose values are records.
func (n *Node) KeyNodes(i int) []*Node {
	if n.multi == nil || n.multi.sub == nil || i < 0 || i >= len(n.multi.sub) {
		return nil
	}
	return n.multi.sub[i]
}

// Formula returns the formula text of a Dynamic node.
func (n *Node) Formula() string {
	if n.dynamic == nil {
		return ""
	}
	return n.dynamic.formula
}

// Computed reports whether a Dynamic node derives its value from a function.
func (n *Node) Computed() bool { return n.dynamic != nil && n.dynamic.compute != nil }

// LinkField returns the companion field holding the node's hyperlink target.
func (n *Node) LinkField() string {
	if n.link == nil {
		return ""
	}
	return n.link.field
}

// Layout is the placed column tree of one record type.
type Layout struct {
	Columns     []*Node
	Height      int // header rows
	Width       int // grid columns
	StartRow    int
	StartColumn int
	// Fields is the field table of the root record type, keyed by name.
	Fields map[string]Field
}

// HeaderRows returns the first and last grid row of the header band.
func (l *Layout) HeaderRows() (first, last int) {
	return l.StartRow, l.StartRow + l.Height - 1
}

// Walk visits every node depth first in grid order, including the trees
// laid out under multi-value keys. Returning false from fn skips the
// node's descendants.
func (l *Layout) Walk(fn func(*Node) bool) {
	walkNodes(l.Columns, fn)
}

func walkNodes(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		walkNodes(n.Children, fn)
		if n.multi != nil {
			for _, sub := range n.multi.sub {
				walkNodes(sub, fn)
			}
		}
	}
}

// Leaf is one grid column of a Layout.
type Leaf struct {
	Column int      // absolute grid column
	Path   string   // dotted field path, with the key appended for multi-value columns
	Labels []string // header labels from the top row down
	Node   *Node    // the node that writes this column
	Key    string   // multi-value key, empty otherwise
}

// Leaves returns the grid columns of the layout in order.
func (l *Layout) Leaves() []Leaf {
	leaves := make([]Leaf, 0, l.Width)
	return appendLeaves(leaves, l.Columns, nil)
}

func appendLeaves(dst []Leaf, nodes []*Node, labels []string) []Leaf {
	for _, n := range nodes {
		chain := append(slices.Clip(labels), n.Label())
		switch n.Category {
		case NestedRecord:
			dst = appendLeaves(dst, n.Children, chain)
		case MultiValue:
			for i, key := range n.multi.keys {
				keyChain := append(slices.Clip(chain), key)
				if n.multi.sub != nil {
					dst = appendLeaves(dst, n.multi.sub[i], keyChain)
					continue
				}
				dst = append(dst, Leaf{
					Column: n.GridIndex + n.multi.offset[key],
					Path:   joinPath(n.Path, key),
					Labels: keyChain,
					Node:   n,
					Key:    key,
				})
			}
		default:
			dst = append(dst, Leaf{Column: n.GridIndex, Path: n.Path, Labels: chain, Node: n})
		}
	}
	return dst
}
