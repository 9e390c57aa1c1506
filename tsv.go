package multihead

import (
	"fmt"
	"io"
	"strings"
)

type tsvStreamer struct {
	w io.Writer
}

func (t *tsvStreamer) begin(s *sheet) error {
	for _, row := range s.headerText() {
		if _, err := fmt.Fprintln(t.w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func (t *tsvStreamer) row(r Row) error {
	texts := make([]string, len(r.Cells))
	for i, v := range r.Cells {
		texts[i] = cellString(v)
	}
	_, err := fmt.Fprintln(t.w, strings.Join(texts, "\t"))
	return err
}

func (t *tsvStreamer) end() error { return nil }
