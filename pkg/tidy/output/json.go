package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonReport represents the full JSON output structure.
type jsonReport struct {
	Action          Action     `json:"action"`
	Source          string     `json:"source,omitempty"`
	Moves           []MoveInfo `json:"moves,omitempty"`
	Skipped         int        `json:"skipped,omitempty"`
	SkippedBySize   int        `json:"skipped_by_size,omitempty"`
	Errors          []string   `json:"errors,omitempty"`
	Restored        int        `json:"restored,omitempty"`
	SkippedRestores []SkipInfo `json:"skipped_restores,omitempty"`
	ManifestID      string     `json:"manifest_id,omitempty"`
	ManifestDeleted bool       `json:"manifest_deleted,omitempty"`
	Runs            []RunInfo  `json:"runs,omitempty"`
	Duration        string     `json:"duration,omitempty"`
	Aborted         bool       `json:"aborted,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONReport(r))
}

// buildJSONReport converts a Report to the JSON output structure.
func buildJSONReport(r *Report) jsonReport {
	return jsonReport{
		Action:          r.Action,
		Source:          r.Source,
		Moves:           r.Moves,
		Skipped:         r.Skipped,
		SkippedBySize:   r.SkippedBySize,
		Errors:          r.Errors,
		Restored:        r.Restored,
		SkippedRestores: r.SkippedRestores,
		ManifestID:      r.ManifestID,
		ManifestDeleted: r.ManifestDeleted,
		Runs:            r.Runs,
		Duration:        formatDurationString(r.Duration),
		Aborted:         r.Aborted,
	}
}

// formatDurationString formats a duration as a string for JSON output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats moves as newline-delimited JSON, one object
// per line. This format is suitable for streaming processing with
// tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, m := range r.Moves {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	for _, run := range r.Runs {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
