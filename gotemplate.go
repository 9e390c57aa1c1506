package multihead

import (
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

type templateStreamer struct {
	w    io.Writer
	tmpl *template.Template
}

func newTemplateStreamer(w io.Writer, tmplStr string) (*templateStreamer, error) {
	tmpl, err := template.New("row").Option("missingkey=zero").Funcs(sprig.TxtFuncMap()).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	return &templateStreamer{w: w, tmpl: tmpl}, nil
}

func (t *templateStreamer) begin(*sheet) error { return nil }

func (t *templateStreamer) row(r Row) error {
	if err := t.tmpl.Execute(t.w, r); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.w)
	return err
}

func (t *templateStreamer) end() error { return nil }
