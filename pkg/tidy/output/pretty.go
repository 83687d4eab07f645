package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	switch r.Action {
	case ActionHistory:
		f.formatHistory(w, r)
	case ActionUndo:
		f.formatUndo(w, r)
	default:
		f.formatOrganize(w, r)
	}
	return nil
}

// formatOrganize renders organize and dry-run reports.
func (f *PrettyFormatter) formatOrganize(w *bytes.Buffer, r *Report) {
	var lines []string

	verb := "Organized"
	if r.Action == ActionDryRun {
		verb = "Would organize"
	}
	title := TitleStyle.Render(fmt.Sprintf("%s %s", verb, r.Source))
	lines = append(lines, title)

	info := fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Files:"),
		ValueStyle.Render(fmt.Sprintf("%d", len(r.Moves))),
		LabelStyle.Render("Took:"),
		ValueStyle.Render(formatDuration(r.Duration)))
	lines = append(lines, info)

	if r.Aborted {
		lines = append(lines, WarningStyle.Bold(true).Render("Run stopped early by user"))
	}

	w.WriteString(HeaderBox.Render(strings.Join(lines, "\n")))
	w.WriteString("\n")

	if len(r.Moves) == 0 {
		w.WriteString(MutedStyle.Render("  Nothing to organize\n"))
	} else {
		for _, cc := range r.CategoryCounts() {
			w.WriteString(fmt.Sprintf("  %s %s\n",
				CategoryStyle.Render(fmt.Sprintf("%-14s", cc.Category)),
				ValueStyle.Render(fmt.Sprintf("%d", cc.Count))))
		}
	}

	if r.Action == ActionDryRun {
		w.WriteString("\n")
		for _, m := range r.Moves {
			w.WriteString(fmt.Sprintf("  %s %s %s\n",
				PathStyle.Render(filepath.Base(m.Source)),
				MutedStyle.Render("->"),
				PathStyle.Render(relToSource(r.Source, m.Destination))))
		}
	}

	f.writeNotes(w, r)
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
}

// writeNotes renders skip counts and errors shared by organize reports.
func (f *PrettyFormatter) writeNotes(w *bytes.Buffer, r *Report) {
	if r.Skipped > 0 {
		w.WriteString(MutedStyle.Render(fmt.Sprintf("  %d skipped by user\n", r.Skipped)))
	}
	if r.SkippedBySize > 0 {
		w.WriteString(MutedStyle.Render(fmt.Sprintf("  %d skipped by size filters\n", r.SkippedBySize)))
	}
	if len(r.Errors) > 0 {
		w.WriteString("\n")
		w.WriteString(WarningStyle.Bold(true).Render("Errors:"))
		w.WriteString("\n")
		for _, e := range r.Errors {
			w.WriteString(ErrorStyle.Render("  " + e))
			w.WriteString("\n")
		}
	}
}

// formatUndo renders undo reports.
func (f *PrettyFormatter) formatUndo(w *bytes.Buffer, r *Report) {
	var lines []string
	lines = append(lines, TitleStyle.Render("Undo "+r.ManifestID))
	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render("Restored:"),
		SuccessStyle.Render(fmt.Sprintf("%d files", r.Restored))))
	w.WriteString(HeaderBox.Render(strings.Join(lines, "\n")))
	w.WriteString("\n")

	for _, s := range r.SkippedRestores {
		w.WriteString(WarningStyle.Render(fmt.Sprintf("  skipped %s: %s\n", s.Path, s.Reason)))
	}

	if r.ManifestDeleted {
		w.WriteString(MutedStyle.Render("  Manifest removed\n"))
	} else if len(r.SkippedRestores) > 0 {
		w.WriteString(MutedStyle.Render("  Manifest kept; run undo again to retry\n"))
	}
}

// formatHistory renders a run listing.
func (f *PrettyFormatter) formatHistory(w *bytes.Buffer, r *Report) {
	if len(r.Runs) == 0 {
		w.WriteString(MutedStyle.Render("No recorded runs\n"))
		return
	}

	w.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		TitleStyle.Render(fmt.Sprintf("%-42s", "ID")),
		TitleStyle.Render(fmt.Sprintf("%-20s", "WHEN")),
		TitleStyle.Render("SOURCE")))

	for _, run := range r.Runs {
		w.WriteString(fmt.Sprintf("  %s  %s  %s %s\n",
			ValueStyle.Render(fmt.Sprintf("%-42s", run.ID)),
			MutedStyle.Render(fmt.Sprintf("%-20s", run.Timestamp.Local().Format("2006-01-02 15:04:05"))),
			PathStyle.Render(run.SourceDir),
			MutedStyle.Render(fmt.Sprintf("(%d files)", run.FilesMoved))))
	}
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	var parts []string

	if r.ManifestID != "" {
		parts = append(parts, fmt.Sprintf("%s %s",
			LabelStyle.Render("Manifest:"), ValueStyle.Render(r.ManifestID)))
		parts = append(parts, MutedStyle.Render("Use tidy undo to revert"))
	} else if r.Action == ActionDryRun {
		parts = append(parts, MutedStyle.Render("Dry run; no files were moved"))
	}

	if len(parts) == 0 {
		return ""
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

// relToSource shortens a destination path relative to the source
// directory when possible.
func relToSource(source, path string) string {
	rel, err := filepath.Rel(source, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
