package multihead

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlRows builds a sequence of mappings so keys keep the grid column order.
func yamlRows(s *sheet) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range sheetRows(s) {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, k := range row.keys {
			val := &yaml.Node{}
			if err := val.Encode(row.values[i]); err != nil {
				return nil, err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, val)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq, nil
}

func writeYAML(w io.Writer, s *sheet, cfg *config) error {
	doc, err := yamlRows(s)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	if cfg.indent != "" {
		enc.SetIndent(len(cfg.indent))
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
