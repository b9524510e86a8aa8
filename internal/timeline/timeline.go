// Package timeline turns a token's raw version records into a validated
// sequence of half-open intervals on the global model/OS order and answers
// point queries over it.
//
// Validation defects are reported through diag.Reporter and collected per
// token: one inconsistent token never blocks building the rest of the corpus.
// Gaps between consecutive intervals are legal — the token was simply absent
// from the timeline there — and records are never merged or stitched across
// model boundaries.
package timeline

import (
	"fmt"
	"sort"

	"tokensheet/internal/diag"
	"tokensheet/internal/osver"
	"tokensheet/internal/sheet"
)

// Timeline is a token's validated interval sequence, sorted by Since.
// Immutable once built; safe for concurrent reads.
type Timeline struct {
	token   *sheet.Token
	records []*sheet.Version
}

// Token returns the token the timeline belongs to.
func (t *Timeline) Token() *sheet.Token { return t.token }

// Records returns the validated records sorted by Since. Read-only view.
func (t *Timeline) Records() []*sheet.Version { return t.records }

// Build sorts and validates a token's version records. Every defect is
// reported through r; the returned ok is false when the records cannot form
// a consistent timeline, in which case the token answers no point queries.
func Build(tok *sheet.Token, r diag.Reporter) (*Timeline, bool) {
	subject := tok.Subject()

	if len(tok.Versions) == 0 {
		diag.ReportWarning(r, diag.TimelineNoVersions, subject, tok.Span,
			"token has no version records").Emit()
		return &Timeline{token: tok}, false
	}

	// Every point must sit on the order table before anything can be sorted.
	ok := true
	for _, ver := range tok.Versions {
		for _, m := range []osver.Model{ver.Since.Model, modelOf(ver.Until)} {
			if m != "" && !m.Known() {
				diag.ReportError(r, diag.TimelineUnknownModel, subject, ver.Span,
					fmt.Sprintf("model %q is not in the order table", string(m))).Emit()
				ok = false
			}
		}
	}
	if !ok {
		return &Timeline{token: tok}, false
	}

	records := make([]*sheet.Version, len(tok.Versions))
	copy(records, tok.Versions)
	sort.SliceStable(records, func(i, j int) bool {
		c, err := records[i].Since.Compare(records[j].Since)
		if err != nil {
			// Unreachable: all models checked above.
			panic(err)
		}
		return c < 0
	})

	for i, ver := range records {
		last := i == len(records)-1

		if ver.Until == nil {
			if !last {
				diag.ReportError(r, diag.TimelineOpenNotLast, subject, ver.Span,
					fmt.Sprintf("record %s has no upper bound but is not the last record", ver.Interval())).Emit()
				ok = false
			}
			continue
		}

		if c, _ := ver.Until.Compare(ver.Since); c < 0 {
			diag.ReportError(r, diag.TimelineInverted, subject, ver.Span,
				fmt.Sprintf("record %s ends before it starts", ver.Interval())).Emit()
			ok = false
			continue
		}

		// Half-open intervals: Until_i == Since_{i+1} is the clean hand-off
		// between models, anything beyond it is an overlap.
		if !last {
			next := records[i+1]
			if c, _ := ver.Until.Compare(next.Since); c > 0 {
				diag.ReportError(r, diag.TimelineOverlap, subject, ver.Span,
					fmt.Sprintf("record %s overlaps the next record", ver.Interval())).
					WithNote(next.Span, fmt.Sprintf("next record is %s", next.Interval())).
					Emit()
				ok = false
			}
		}
	}

	if !ok {
		return &Timeline{token: tok}, false
	}
	return &Timeline{token: tok, records: records}, true
}

// Resolve answers the point query: the unique record whose interval contains
// p, if any. The comma-ok false is the expected "token did not exist there"
// outcome, not an error. p must use a model from the order table.
func (t *Timeline) Resolve(p osver.Point) (*sheet.Version, bool) {
	for _, ver := range t.records {
		in, err := Contains(ver, p)
		if err != nil {
			return nil, false
		}
		if in {
			return ver, true
		}
	}
	return nil, false
}

// Contains is the single containment test of the engine: Since ≤ p < Until,
// a nil Until standing for +infinity. The name index scopes its matches with
// this same test so interval logic is never duplicated.
func Contains(ver *sheet.Version, p osver.Point) (bool, error) {
	c, err := ver.Since.Compare(p)
	if err != nil {
		return false, err
	}
	if c > 0 {
		return false, nil
	}
	if ver.Until == nil {
		return true, nil
	}
	c, err = ver.Until.Compare(p)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Overlaps reports whether two records' intervals share any point. Used by
// the name index to decide whether two owners of one name can ever be
// eligible at the same time.
func Overlaps(a, b *sheet.Version) (bool, error) {
	// Half-open intervals overlap iff each starts before the other ends.
	if b.Until != nil {
		c, err := a.Since.Compare(*b.Until)
		if err != nil || c >= 0 {
			return false, err
		}
	}
	if a.Until != nil {
		c, err := b.Since.Compare(*a.Until)
		if err != nil || c >= 0 {
			return false, err
		}
	}
	return true, nil
}

func modelOf(p *osver.Point) osver.Model {
	if p == nil {
		return ""
	}
	return p.Model
}
