package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/bjaus/multihead"
)

var errNoRecords = errors.New("no records")

// readInput reads path, or standard input when path is empty or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// parseRecords accepts a JSON array of objects or one object per line.
func parseRecords(data []byte) ([]gjson.Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errNoRecords
	}

	var records []gjson.Result
	if trimmed[0] == '[' {
		if !gjson.ValidBytes(trimmed) {
			return nil, errors.New("records: invalid JSON")
		}
		var err error
		gjson.ParseBytes(trimmed).ForEach(func(_, value gjson.Result) bool {
			if !value.IsObject() {
				err = fmt.Errorf("records: item %d is not an object", len(records))
				return false
			}
			records = append(records, value)
			return true
		})
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		line := 0
		gjson.ForEachLine(string(trimmed), func(value gjson.Result) bool {
			line++
			if !value.IsObject() {
				err = fmt.Errorf("records: line %d is not a JSON object", line)
				return false
			}
			records = append(records, value)
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	if len(records) == 0 {
		return nil, errNoRecords
	}
	return records, nil
}

// recordSeq yields records until stop reports true.
func recordSeq(records []gjson.Result, stop func() bool) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, r := range records {
			if stop() || !yield(r) {
				return
			}
		}
	}
}

// discoverKeys fills in Keys for every multi-value field of scalar items
// that no column declares keys for, using the distinct item values across
// records in first-seen order. A column already present for the field keeps
// its other settings and receives the keys; otherwise a column is added.
func discoverKeys(schema *multihead.Schema, records []gjson.Result, columns []multihead.Column) []multihead.Column {
	out := slices.Clone(columns)
	index := make(map[string]int, len(out))
	for i, c := range out {
		index[c.Path] = i
	}
	walkSchema(schema, nil, func(path []string, f multihead.SchemaField) {
		full := strings.Join(path, ".")
		if f.Kind != multihead.KindMultiValue || f.Record != nil {
			return
		}
		i, ok := index[full]
		if ok && (len(out[i].Keys) > 0 || out[i].Ignore) {
			return
		}
		keys := collectKeys(records, path)
		if len(keys) == 0 {
			return
		}
		if ok {
			out[i].Keys = keys
			return
		}
		out = append(out, multihead.Column{Path: full, Keys: keys})
	})
	return out
}

func walkSchema(s *multihead.Schema, prefix []string, fn func([]string, multihead.SchemaField)) {
	for _, f := range s.Fields {
		path := append(slices.Clip(prefix), f.Name)
		fn(path, f)
		if f.Kind == multihead.KindRecord && f.Record != nil {
			walkSchema(f.Record, path, fn)
		}
	}
}

func collectKeys(records []gjson.Result, path []string) []string {
	escaped := make([]string, len(path))
	for i, p := range path {
		escaped[i] = gjson.Escape(p)
	}
	query := strings.Join(escaped, ".")

	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		r.Get(query).ForEach(func(_, item gjson.Result) bool {
			k := item.String()
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
			return true
		})
	}
	return keys
}
