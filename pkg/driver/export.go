package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"dsaviz/interpreter-go/pkg/tracer"
)

// Format selects a trace serialisation.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("driver: unknown format %q (want text, json or yaml)", name)
}

// Trace is the serialisable record of one run.
type Trace struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Snapshots []tracer.Snapshot `json:"snapshots" yaml:"snapshots"`
	Remaining []tracer.Value    `json:"remaining_input" yaml:"remaining_input"`
	Error     *TraceError       `json:"error,omitempty" yaml:"error,omitempty"`
}

// TraceError describes the failure that ended a run early.
type TraceError struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// NewTrace builds the export record for a result and the error its run
// returned, if any.
func NewTrace(res *Result, runErr error) Trace {
	trace := Trace{Snapshots: []tracer.Snapshot{}, Remaining: []tracer.Value{}}
	if res != nil {
		trace.RunID = res.RunID.String()
		trace.Snapshots = res.Sequence.Snapshots()
		if len(res.Remaining) > 0 {
			trace.Remaining = append(trace.Remaining, res.Remaining...)
		}
	}
	if runErr != nil {
		trace.Error = &TraceError{Message: runErr.Error()}
		var re *RunError
		if errors.As(runErr, &re) {
			trace.Error = &TraceError{Message: re.Message, Line: re.Line, Column: re.Column}
		}
	}
	return trace
}

// WriteTrace serialises trace as JSON or YAML.
func WriteTrace(w io.Writer, format Format, trace Trace) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(trace); err != nil {
			return fmt.Errorf("driver: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(trace); err != nil {
			return fmt.Errorf("driver: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("driver: format %q is not a serialisation", format)
	}
}
