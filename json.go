package multihead

import (
	"bytes"
	"encoding/json"
	"io"
)

// orderedRow is a JSON object whose members keep the grid column order.
type orderedRow struct {
	keys   []string
	values []any
}

func sheetRows(s *sheet) []orderedRow {
	paths := s.headerPaths()
	out := make([]orderedRow, len(s.rows))
	for i, cells := range s.rows {
		out[i] = newOrderedRow(paths, rowValues(cells))
	}
	return out
}

func newOrderedRow(keys []string, values []any) orderedRow {
	return orderedRow{keys: keys, values: values}
}

// MarshalJSON implements json.Marshaler.
func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, s *sheet, cfg *config) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if cfg.indent != "" {
		enc.SetIndent("", cfg.indent)
	}
	return enc.Encode(sheetRows(s))
}
