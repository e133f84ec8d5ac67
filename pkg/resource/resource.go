// Package resource defines the resource model shared by reaper's sweepers.
package resource

import (
	"fmt"
	"time"
)

// Category is one of the fixed cloud resource kinds reaper sweeps.
type Category int

const (
	// ComputeInstance is a stopped virtual machine (EC2).
	ComputeInstance Category = iota
	// ManagedDatabase is a stopped managed database instance (RDS).
	ManagedDatabase
	// ObjectStoreBucket is an object storage bucket (S3).
	ObjectStoreBucket
	// ServerlessFunction is a serverless function (Lambda).
	ServerlessFunction
)

var categoryNames = [...]string{
	ComputeInstance:    "ec2",
	ManagedDatabase:    "rds",
	ObjectStoreBucket:  "s3",
	ServerlessFunction: "lambda",
}

// Categories returns every category in sweep order.
func Categories() []Category {
	return []Category{ComputeInstance, ManagedDatabase, ObjectStoreBucket, ServerlessFunction}
}

// String returns the short name used in logs, metrics and reports.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// MarshalText implements encoding.TextMarshaler so categories key JSON/YAML maps by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// ParseCategory returns the category with the given short name.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Record is a resource found during discovery.
type Record struct {
	Category      Category  `json:"category" yaml:"category"`
	ID            string    `json:"id" yaml:"id"`
	ReferenceTime time.Time `json:"reference_time" yaml:"reference_time"` // launch, creation, last-modified or LastUsed
	IdleDays      int       `json:"idle_days" yaml:"idle_days"`
}

// Skip records a resource that discovery looked at but could not evaluate.
type Skip struct {
	Category Category `json:"category" yaml:"category"`
	ID       string   `json:"id" yaml:"id"`
	Reason   string   `json:"reason" yaml:"reason"`
}

// SweepResult holds everything one invocation discovered and acted on.
type SweepResult struct {
	Provider      string
	Region        string
	ThresholdDays int
	Unused        UnusedSet
	Records       []Record
	Skipped       []Skip
	Deleted       int
	Duration      time.Duration
	Error         error
}
