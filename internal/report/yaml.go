package report

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes the same structure as JSONFormatter in YAML.
type YAMLFormatter struct{}

// Format writes the formatted report to w.
func (f *YAMLFormatter) Format(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildDocument(r)); err != nil {
		return err
	}
	return enc.Close()
}

var _ Formatter = (*YAMLFormatter)(nil)
