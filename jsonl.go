package multihead

import (
	"encoding/json"
	"io"
)

type jsonlStreamer struct {
	enc   *json.Encoder
	paths []string
}

func newJSONLStreamer(w io.Writer, cfg *config) *jsonlStreamer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if cfg.indent != "" {
		enc.SetIndent("", cfg.indent)
	}
	return &jsonlStreamer{enc: enc}
}

func (j *jsonlStreamer) begin(s *sheet) error {
	j.paths = s.headerPaths()
	return nil
}

func (j *jsonlStreamer) row(r Row) error {
	return j.enc.Encode(newOrderedRow(j.paths, r.Cells))
}

func (j *jsonlStreamer) end() error { return nil }
