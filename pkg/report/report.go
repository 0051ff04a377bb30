// Package report renders audit findings, one block per cluster.
//
// The text format is line-compatible with earlier releases of the tool, so
// consumers that diff report output keep working. Absent labels and unknown
// timestamps print as the literal None.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/apiaudit/pkg/classifier"
)

// Format represents the output format of a report.
type Format string

const (
	// FormatText is the legacy human-readable report.
	FormatText Format = "text"
	// FormatJSON emits one JSON document per cluster.
	FormatJSON Format = "json"
	// FormatYAML emits one YAML document per cluster.
	FormatYAML Format = "yaml"
)

// NoneValue is printed in text reports for absent labels and timestamps.
const NoneValue = "None"

// SupportedFormats returns the list of valid format names.
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// IsUnknown returns true if the format is not one of the supported formats.
func (f Format) IsUnknown() bool {
	return !slices.Contains(SupportedFormats(), string(f))
}

// ClusterReport is the set of findings for one cluster.
type ClusterReport struct {
	Context  string               `json:"context" yaml:"context"`
	RunID    string               `json:"runId,omitempty" yaml:"runId,omitempty"`
	Findings []classifier.Finding `json:"findings" yaml:"findings"`
}

// Writer renders cluster reports to an output.
type Writer interface {
	Write(r ClusterReport) error
	Close() error
}

const textTemplate = `
#### {{ .Context }}
{{ range .Findings -}}
- name: {{ .Name }}
   - type: {{ .Kind }}
   - labels: {{ labels .Labels }}
   - removed_references: {{ references .RemovedAPIReferences }}
   - required_api: {{ .RequiredAPIVersion }}
{{ end }}
`

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"labels":     formatLabels,
	"references": formatReferences,
}).Parse(textTemplate))

// StreamWriter writes reports to an io.Writer in a fixed format.
type StreamWriter struct {
	format Format
	out    io.Writer
	closer io.Closer
	yaml   *yaml.Encoder
}

// NewWriter creates a StreamWriter. Unknown formats fall back to text.
func NewWriter(format Format, out io.Writer) *StreamWriter {
	if format.IsUnknown() {
		format = FormatText
	}
	w := &StreamWriter{format: format, out: out}
	if format == FormatYAML {
		w.yaml = yaml.NewEncoder(out)
		w.yaml.SetIndent(2)
	}
	return w
}

// NewFileWriterOrStdout writes to path, or to stdout when path is empty or "-".
func NewFileWriterOrStdout(format Format, path string) (*StreamWriter, error) {
	if path == "" || path == "-" {
		return NewWriter(format, os.Stdout), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %q: %w", path, err)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Write renders a single cluster report.
func (w *StreamWriter) Write(r ClusterReport) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to serialize report to json: %w", err)
		}
	case FormatYAML:
		if err := w.yaml.Encode(r); err != nil {
			return fmt.Errorf("failed to serialize report to yaml: %w", err)
		}
	default:
		if err := tmpl.Execute(w.out, r); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}
	return nil
}

// Close flushes buffered output and closes the underlying file, if any.
func (w *StreamWriter) Close() error {
	if w.yaml != nil {
		if err := w.yaml.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return NoneValue
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+labels[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func formatReferences(refs []classifier.Reference) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		parts = append(parts, fmt.Sprintf("{api_version: %s, manager: %s, time: %s}",
			r.APIVersion, r.Manager, formatTime(r.Time)))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return NoneValue
	}
	return t.UTC().Format(time.RFC3339)
}
