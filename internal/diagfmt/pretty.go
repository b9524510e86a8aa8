// Package diagfmt renders diagnostics, token streams and registry summaries
// for the CLI. Output is deterministic: bags are expected pre-sorted and all
// iteration here is in stored order.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tokensheet/internal/diag"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	noteColor = color.New(color.FgHiBlack)
	codeColor = color.New(color.Faint)
)

// Pretty writes one diagnostic per line:
//
//	error[TLN2002] token 0xBA: version intervals overlap
//	  note: next record is [TI-83 0.0103, current)
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s%s %s: %s\n",
			severityTag(d.Severity, opts.Color),
			paint(opts.Color, codeColor, "["+d.Code.ID()+"]"),
			subjectOrSheet(d.Subject),
			d.Message)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", paint(opts.Color, noteColor, "note:"), n.Msg)
			}
		}
	}
}

func severityTag(sev diag.Severity, colored bool) string {
	switch sev {
	case diag.SevError:
		return paint(colored, errColor, "error")
	case diag.SevWarning:
		return paint(colored, warnColor, "warning")
	default:
		return paint(colored, infoColor, "info")
	}
}

func subjectOrSheet(subject string) string {
	if subject == "" {
		return "sheet"
	}
	return subject
}

func paint(colored bool, c *color.Color, s string) string {
	if !colored {
		return s
	}
	return c.Sprint(s)
}
