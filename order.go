package multihead

// slot is one position in a level's column sequence before placement.
type slot struct {
	name   string
	column *Column // override addressed to this level, nil when there is none
	field  *Field  // backing field, nil for virtual columns
}

func (s slot) ignored() bool { return s.column != nil && s.column.Ignore }

// resolveOrder merges the level's direct overrides with its fields.
//
// Overrides with an explicit order come first in the sequence they were
// declared, without sorting on the order value. The remaining fields follow
// in declaration order, then the unordered virtual columns. Ignored entries
// are dropped after conflicts are checked. prefix is the level's path and
// only appears in errors.
func resolveOrder(prefix string, direct []Column, fields []Field) ([]slot, error) {
	byName := make(map[string]*Field, len(fields))
	for i := range fields {
		byName[fields[i].Name] = &fields[i]
	}
	overrides := make(map[string]*Column, len(direct))
	for i := range direct {
		overrides[direct[i].Path] = &direct[i]
	}

	seq := make([]slot, 0, len(fields)+len(direct))
	placed := make(map[string]bool, len(direct))
	for i := range direct {
		c := &direct[i]
		if c.Order == 0 {
			continue
		}
		seq = append(seq, slot{name: c.Path, column: c, field: byName[c.Path]})
		placed[c.Path] = true
	}

	for i := 1; i < len(seq); i++ {
		prev, cur := seq[i-1], seq[i]
		if prev.field == nil || cur.field == nil {
			continue
		}
		if prev.column.Order == cur.column.Order {
			return nil, &OrderConflictError{
				First:  joinPath(prefix, prev.name),
				Second: joinPath(prefix, cur.name),
				Order:  cur.column.Order,
			}
		}
	}

	for i := range fields {
		f := &fields[i]
		if placed[f.Name] {
			continue
		}
		seq = append(seq, slot{name: f.Name, column: overrides[f.Name], field: f})
	}
	for i := range direct {
		c := &direct[i]
		if c.Order == 0 && byName[c.Path] == nil {
			seq = append(seq, slot{name: c.Path, column: c})
		}
	}

	out := seq[:0]
	for _, s := range seq {
		if !s.ignored() {
			out = append(out, s)
		}
	}
	return out, nil
}

// renumber assigns final 1-based orders in sequence.
func renumber(nodes []*Node) {
	for i, n := range nodes {
		n.Order = i + 1
	}
}
