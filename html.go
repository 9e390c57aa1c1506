package multihead

import (
	"fmt"
	"html"
	"io"
)

func writeHTML(w io.Writer, s *sheet, cfg *config) error {
	aligns := cfg.aligns

	if _, err := fmt.Fprintln(w, "<table>"); err != nil {
		return err
	}

	if cfg.title != "" {
		if _, err := fmt.Fprintf(w, "  <caption>%s</caption>\n", html.EscapeString(cfg.title)); err != nil {
			return err
		}
	}

	if len(s.header) > 0 {
		if _, err := fmt.Fprintln(w, "  <thead>"); err != nil {
			return err
		}
		for _, cells := range s.header {
			if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
				return err
			}
			for _, hc := range cells {
				if !hc.start || hc.covered {
					continue
				}
				if _, err := fmt.Fprintf(w, "      <th%s>%s</th>\n", spanAttrs(hc), html.EscapeString(hc.text)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, "    </tr>"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "  </thead>"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "  <tbody>"); err != nil {
		return err
	}
	for _, cells := range s.rows {
		if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
			return err
		}
		for i, c := range cells {
			style := alignStyle(aligns, i)
			if _, err := fmt.Fprintf(w, "      <td%s>%s</td>\n", style, htmlCell(c)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "    </tr>"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "  </tbody>"); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "</table>")
	return err
}

func spanAttrs(hc headerCell) string {
	var attrs string
	if hc.span > 1 {
		attrs += fmt.Sprintf(` colspan="%d"`, hc.span)
	}
	if hc.rowSpan > 1 {
		attrs += fmt.Sprintf(` rowspan="%d"`, hc.rowSpan)
	}
	return attrs
}

func htmlCell(c Cell) string {
	text := html.EscapeString(cellText(c))
	if c.Link == "" {
		return text
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(c.Link), text)
}

func alignStyle(aligns []Alignment, col int) string {
	if col >= len(aligns) {
		return ""
	}
	switch aligns[col] {
	case AlignRight:
		return ` style="text-align: right"`
	case AlignCenter:
		return ` style="text-align: center"`
	default:
		return ""
	}
}
