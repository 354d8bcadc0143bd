package switches

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// HelpLine is one row of formatted switch help.
type HelpLine struct {
	ID    ID
	Forms []string
	Arg   string
	Help  string
}

// Left is the first column: every spelling plus the argument placeholder.
func (l HelpLine) Left() string {
	s := strings.Join(l.Forms, ", ")
	if l.Arg != "" {
		s += " " + l.Arg
	}
	return s
}

// HelpLines groups definitions by ID, one line per ID in table order.
func (t Table) HelpLines() []HelpLine {
	lines := make([]HelpLine, 0, len(t))
	for _, id := range t.IDs() {
		line := HelpLine{ID: id}
		for _, d := range t.Lookup(id) {
			line.Forms = append(line.Forms, d.Forms()...)
			if line.Help == "" {
				line.Help = d.Help
			}
			switch d.Argument {
			case Required:
				line.Arg = "<" + d.argName() + ">"
			case Optional:
				if line.Arg == "" {
					line.Arg = "[<" + d.argName() + ">]"
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// Format writes the help text for t, aligned in two columns.
func (t Table) Format(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, line := range t.HelpLines() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", line.Left(), line.Help)
	}
	return tw.Flush()
}
