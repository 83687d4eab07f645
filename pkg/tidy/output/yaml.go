package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlReport represents the full YAML output structure.
type yamlReport struct {
	Action          Action     `yaml:"action"`
	Source          string     `yaml:"source,omitempty"`
	Moves           []MoveInfo `yaml:"moves,omitempty"`
	Skipped         int        `yaml:"skipped,omitempty"`
	SkippedBySize   int        `yaml:"skipped_by_size,omitempty"`
	Errors          []string   `yaml:"errors,omitempty"`
	Restored        int        `yaml:"restored,omitempty"`
	SkippedRestores []SkipInfo `yaml:"skipped_restores,omitempty"`
	ManifestID      string     `yaml:"manifest_id,omitempty"`
	ManifestDeleted bool       `yaml:"manifest_deleted,omitempty"`
	Runs            []RunInfo  `yaml:"runs,omitempty"`
	Duration        string     `yaml:"duration,omitempty"`
	Aborted         bool       `yaml:"aborted,omitempty"`
}

// YAMLFormatter formats output as a YAML document.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	report := yamlReport{
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

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
