package diagfmt

import (
	"encoding/json"
	"io"

	"tokensheet/internal/diag"
)

type jsonNote struct {
	Message string `json:"message"`
}

type jsonDiagnostic struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Subject  string     `json:"subject,omitempty"`
	Span     *jsonSpan  `json:"span,omitempty"`
	Message  string     `json:"message"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

type jsonSpan struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// JSON writes the bag as a single indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	report := jsonReport{Diagnostics: []jsonDiagnostic{}}

	for i, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			report.Errors++
		case diag.SevWarning:
			report.Warnings++
		}
		if opts.Max > 0 && i >= opts.Max {
			report.Truncated = true
			continue
		}
		jd := jsonDiagnostic{
			Severity: severityName(d.Severity),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Subject:  d.Subject,
			Message:  d.Message,
		}
		if !d.Span.IsZero() {
			jd.Span = &jsonSpan{Start: d.Span.Start, End: d.Span.End}
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				jd.Notes = append(jd.Notes, jsonNote{Message: n.Msg})
			}
		}
		report.Diagnostics = append(report.Diagnostics, jd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func severityName(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}
