package report

import (
	"fmt"
	"io"

	"changelog-lint/internal/models"
)

// ConsoleReporter writes breaking-change blocks to an output stream.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report writes the text block for a breaking report. Non-breaking reports
// produce no output.
func (r *ConsoleReporter) Report(rep models.Report) error {
	if !rep.Breaking {
		return nil
	}
	_, err := fmt.Fprintf(r.out, "------\nBreaking change in file %s on line %d.\n%s\n------\n",
		rep.Event.File, rep.Line, rep.Message)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
