package engine

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// Decision is the outcome of a single interactive prompt.
type Decision int

const (
	// DecisionYes approves the current move.
	DecisionYes Decision = iota
	// DecisionNo skips the current move.
	DecisionNo
	// DecisionAll approves the current move and all remaining moves.
	DecisionAll
	// DecisionChange re-plans the current move under a different category.
	DecisionChange
	// DecisionQuit stops processing entirely.
	DecisionQuit
)

// Confirmer decides whether a planned move should proceed. For
// DecisionChange the second return value carries the new category name.
type Confirmer interface {
	Confirm(plan types.MovePlan) (Decision, string, error)
}

// TerminalConfirmer prompts on a terminal and reads single-letter
// responses: y (yes), n (no), a (all), c (change category), q (quit).
type TerminalConfirmer struct {
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalConfirmer creates a confirmer reading from in and
// prompting on out.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Confirm prompts for the given plan until a valid response arrives.
func (t *TerminalConfirmer) Confirm(plan types.MovePlan) (Decision, string, error) {
	for {
		fmt.Fprintf(t.out, "Move %s -> %s? [y/n/a/c/q] ",
			filepath.Base(plan.Source), filepath.Join(plan.Category, filepath.Base(plan.Destination)))

		line, err := t.reader.ReadString('\n')
		if err != nil {
			return DecisionQuit, "", fmt.Errorf("reading response: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return DecisionYes, "", nil
		case "n", "no":
			return DecisionNo, "", nil
		case "a", "all":
			return DecisionAll, "", nil
		case "c", "change":
			category, err := t.readCategory()
			if err != nil {
				return DecisionQuit, "", err
			}
			if category == "" {
				fmt.Fprintln(t.out, "Category cannot be empty.")
				continue
			}
			return DecisionChange, category, nil
		case "q", "quit":
			return DecisionQuit, "", nil
		default:
			fmt.Fprintln(t.out, "Please answer y, n, a, c, or q.")
		}
	}
}

func (t *TerminalConfirmer) readCategory() (string, error) {
	fmt.Fprint(t.out, "New category: ")
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading category: %w", err)
	}
	return strings.TrimSpace(line), nil
}
