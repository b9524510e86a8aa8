package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tokensheet/internal/diag"
	"tokensheet/internal/registry"
)

// Summary is the validate verb's aggregate view of a built registry.
type Summary struct {
	Tokens   int `json:"tokens"`
	Valid    int `json:"valid"`
	Versions int `json:"versions"`
	Names    int `json:"names"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summarize counts what the build produced and what it rejected.
func Summarize(reg *registry.Registry, bag *diag.Bag) Summary {
	s := Summary{Tokens: len(reg.Tokens())}
	for _, tok := range reg.Tokens() {
		tl, ok := reg.TimelineOf(tok.Value)
		if !ok {
			continue
		}
		s.Valid++
		for _, ver := range tl.Records() {
			s.Versions++
			for _, tr := range ver.Langs {
				s.Names += len(tr.Accessible) + len(tr.Variants)
			}
		}
	}
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			s.Errors++
		case diag.SevWarning:
			s.Warnings++
		}
	}
	return s
}

var summaryOkColor = color.New(color.FgGreen, color.Bold)

// SummaryPretty renders the aggregate counts, with a closing verdict line.
func SummaryPretty(w io.Writer, s Summary, colored bool) {
	fmt.Fprintf(w, "tokens:   %d (%d valid)\n", s.Tokens, s.Valid)
	fmt.Fprintf(w, "versions: %d\n", s.Versions)
	fmt.Fprintf(w, "names:    %d\n", s.Names)
	switch {
	case s.Errors > 0:
		fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n",
			paint(colored, errColor, "invalid"), s.Errors, s.Warnings)
	case s.Warnings > 0:
		fmt.Fprintf(w, "%s: %d warning(s)\n",
			paint(colored, warnColor, "valid"), s.Warnings)
	default:
		fmt.Fprintf(w, "%s\n", paint(colored, summaryOkColor, "valid"))
	}
}

// SummaryJSON writes the aggregate counts as one JSON object.
func SummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
