package multihead

import (
	"encoding/csv"
	"io"
)

// csvStreamer writes the header band as-is, one CSV line per header row,
// with merged labels in their first cell.
type csvStreamer struct {
	cw *csv.Writer
}

func newCSVStreamer(w io.Writer, cfg *config) *csvStreamer {
	cw := csv.NewWriter(w)
	if cfg.delimiter != 0 {
		cw.Comma = cfg.delimiter
	}
	return &csvStreamer{cw: cw}
}

func (c *csvStreamer) begin(s *sheet) error {
	for _, row := range s.headerText() {
		if err := c.cw.Write(row); err != nil {
			return err
		}
	}
	c.cw.Flush()
	return c.cw.Error()
}

func (c *csvStreamer) row(r Row) error {
	texts := make([]string, len(r.Cells))
	for i, v := range r.Cells {
		texts[i] = cellString(v)
	}
	if err := c.cw.Write(texts); err != nil {
		return err
	}
	c.cw.Flush()
	return c.cw.Error()
}

func (c *csvStreamer) end() error {
	c.cw.Flush()
	return c.cw.Error()
}
