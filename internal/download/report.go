package download

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	ioutils "github.com/handiism/ugtabs/internal/io"
)

// Report is the YAML document written by WriteReport.
type Report struct {
	BatchID      string        `yaml:"batch_id"`
	GeneratedAt  time.Time     `yaml:"generated_at"`
	Total        int           `yaml:"total"`
	Succeeded    int           `yaml:"succeeded"`
	Failed       int           `yaml:"failed"`
	AllAnonymous bool          `yaml:"all_anonymous"`
	Tabs         []ReportEntry `yaml:"tabs"`
	Skipped      []string      `yaml:"skipped,omitempty"`
}

// ReportEntry is one tab of the report.
type ReportEntry struct {
	URL    string `yaml:"url"`
	Status string `yaml:"status"` // ok, failed
	File   string `yaml:"file,omitempty"`
	Bytes  int64  `yaml:"bytes,omitempty"`
	Kind   string `yaml:"kind,omitempty"`
	Error  string `yaml:"error,omitempty"`
	Hint   string `yaml:"hint,omitempty"`
}

// NewReport builds the report of summary, stamped with now.
func NewReport(summary *Summary, now time.Time) *Report {
	r := &Report{
		BatchID:      summary.BatchID,
		GeneratedAt:  now.UTC(),
		Total:        summary.Total,
		Succeeded:    summary.Succeeded(),
		Failed:       len(summary.Failures()),
		AllAnonymous: summary.AllAnonymous(),
		Skipped:      summary.Skipped,
	}

	for _, o := range summary.Outcomes {
		entry := ReportEntry{URL: o.URL, Status: "ok"}
		if o.Succeeded() {
			if o.Artifact != nil {
				entry.File = o.Artifact.Path
				entry.Bytes = o.Artifact.Size
			}
		} else {
			entry.Status = "failed"
			entry.Kind = o.Kind().String()
			entry.Error = o.Err.Error()
			entry.Hint = o.Kind().Hint()
		}
		r.Tabs = append(r.Tabs, entry)
	}

	return r
}

// WriteReport writes summary as YAML to path.
func WriteReport(ctx context.Context, path string, summary *Summary) error {
	data, err := yaml.Marshal(NewReport(summary, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
