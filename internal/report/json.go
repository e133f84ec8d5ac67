package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct{}

// Format writes the formatted report to w.
func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildDocument(r))
}

var _ Formatter = (*JSONFormatter)(nil)
