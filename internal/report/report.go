// Package report renders sweep results for the terminal and for scripts.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/yairfalse/reaper/pkg/resource"
)

// Report is one invocation's result plus the context needed to render it.
type Report struct {
	Result resource.SweepResult
	Mode   string // "scan" or "sweep"
	Now    time.Time
}

// Formatter writes a report in one output format.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

var formatters = map[string]func() Formatter{
	"text": func() Formatter { return &TextFormatter{} },
	"json": func() Formatter { return &JSONFormatter{} },
	"yaml": func() Formatter { return &YAMLFormatter{} },
}

// New returns the formatter registered under name.
func New(name string) (Formatter, error) {
	factory, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, Available())
	}
	return factory(), nil
}

// Available returns the registered format names, sorted.
func Available() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write renders r to w in the named format.
func Write(w io.Writer, format string, r *Report) error {
	f, err := New(format)
	if err != nil {
		return err
	}
	return f.Format(w, r)
}

// document is the structured form shared by the JSON and YAML formatters.
type document struct {
	Provider      string            `json:"provider" yaml:"provider"`
	Region        string            `json:"region" yaml:"region"`
	Mode          string            `json:"mode" yaml:"mode"`
	ThresholdDays int               `json:"threshold_days" yaml:"threshold_days"`
	Unused        []categoryIDs     `json:"unused" yaml:"unused"`
	Records       []resource.Record `json:"records" yaml:"records"`
	Skipped       []resource.Skip   `json:"skipped" yaml:"skipped"`
	Deleted       int               `json:"deleted" yaml:"deleted"`
	Duration      string            `json:"duration" yaml:"duration"`
	Error         string            `json:"error,omitempty" yaml:"error,omitempty"`
}

type categoryIDs struct {
	Category string   `json:"category" yaml:"category"`
	IDs      []string `json:"ids" yaml:"ids"`
}

func buildDocument(r *Report) document {
	res := r.Result

	unused := make([]categoryIDs, 0, len(resource.Categories()))
	for _, c := range resource.Categories() {
		ids := res.Unused.IDs(c)
		if ids == nil {
			ids = []string{}
		}
		unused = append(unused, categoryIDs{Category: c.String(), IDs: ids})
	}

	doc := document{
		Provider:      res.Provider,
		Region:        res.Region,
		Mode:          r.Mode,
		ThresholdDays: res.ThresholdDays,
		Unused:        unused,
		Records:       res.Records,
		Skipped:       res.Skipped,
		Deleted:       res.Deleted,
		Duration:      res.Duration.Round(time.Millisecond).String(),
	}
	if doc.Records == nil {
		doc.Records = []resource.Record{}
	}
	if doc.Skipped == nil {
		doc.Skipped = []resource.Skip{}
	}
	if res.Error != nil {
		doc.Error = res.Error.Error()
	}
	return doc
}
