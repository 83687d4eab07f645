package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as simple tab-separated text.
// It produces plain output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	switch r.Action {
	case ActionHistory:
		fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tFILES")
		for _, run := range r.Runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
				run.ID, run.Timestamp.Local().Format("2006-01-02 15:04:05"),
				run.SourceDir, run.FilesMoved)
		}

	case ActionUndo:
		fmt.Fprintf(tw, "restored\t%d\n", r.Restored)
		for _, s := range r.SkippedRestores {
			fmt.Fprintf(tw, "skipped\t%s\t%s\n", s.Path, s.Reason)
		}

	default:
		fmt.Fprintln(tw, "CATEGORY\tSOURCE\tDESTINATION")
		for _, m := range r.Moves {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Category, m.Source, m.Destination)
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
