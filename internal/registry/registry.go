// Package registry assembles the queryable engine over a loaded sheet: every
// token's validated timeline plus the shared name trie, behind the three
// query operations Resolve, Tokenize and Detokenize.
//
// A built Registry is immutable and safe for unrestricted concurrent reads.
// Construction collects data defects into a diag.Bag instead of aborting:
// tokens whose records cannot form a consistent timeline are excluded from
// queries, everything else keeps working.
package registry

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tokensheet/internal/diag"
	"tokensheet/internal/osver"
	"tokensheet/internal/sheet"
	"tokensheet/internal/timeline"
	"tokensheet/internal/trie"
)

// Options tunes registry construction.
type Options struct {
	// MaxDiagnostics caps the merged bag; diag.DefaultMax when zero.
	MaxDiagnostics int
	// Jobs bounds build parallelism; GOMAXPROCS when zero.
	Jobs int
}

// Registry is the built query surface.
type Registry struct {
	sheet     *sheet.Sheet
	timelines map[string]*timeline.Timeline // key: string(token value), valid timelines only
	index     *trie.Trie
}

// Build constructs every token's timeline and the name trie. Timelines build
// in parallel — each token's history is independent — with per-token bags
// merged in token order afterwards, so diagnostics come out deterministic
// regardless of scheduling.
func Build(sh *sheet.Sheet, opts Options) (*Registry, *diag.Bag) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	type slot struct {
		tl  *timeline.Timeline
		ok  bool
		bag *diag.Bag
	}
	slots := make([]slot, len(sh.Tokens))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, tok := range sh.Tokens {
		i, tok := i, tok
		g.Go(func() error {
			bag := diag.NewBag(diag.DefaultMax)
			rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
			tl, ok := timeline.Build(tok, rep)
			slots[i] = slot{tl: tl, ok: ok, bag: bag}
			return nil
		})
	}
	_ = g.Wait() // workers only report through bags

	bag := diag.NewBag(opts.MaxDiagnostics)
	timelines := make(map[string]*timeline.Timeline, len(sh.Tokens))
	valid := make([]*timeline.Timeline, 0, len(sh.Tokens))
	for i, tok := range sh.Tokens {
		bag.Merge(slots[i].bag)
		if slots[i].ok {
			timelines[string(tok.Value)] = slots[i].tl
			valid = append(valid, slots[i].tl)
		}
	}

	// The trie checks name uniqueness across tokens, so it builds serially
	// over the already-ordered valid timelines.
	index := trie.Build(valid, diag.BagReporter{Bag: bag})

	bag.Sort()
	return &Registry{sheet: sh, timelines: timelines, index: index}, bag
}

// Tokens returns every token of the sheet in byte-value order, including
// tokens whose timelines failed validation. Read-only view.
func (r *Registry) Tokens() []*sheet.Token { return r.sheet.Tokens }

// Sheet returns the underlying entity graph. Read-only view.
func (r *Registry) Sheet() *sheet.Sheet { return r.sheet }

// TimelineOf returns the validated timeline of the token with the given byte
// value. Tokens excluded by validation have no timeline.
func (r *Registry) TimelineOf(value []byte) (*timeline.Timeline, bool) {
	tl, ok := r.timelines[string(value)]
	return tl, ok
}

// Resolve answers the point query for one token: the version record active
// at p, if any. comma-ok false covers both "no record active at p" and
// "token unknown or excluded"; callers who need the distinction ask
// TimelineOf first.
func (r *Registry) Resolve(value []byte, p osver.Point) (*sheet.Version, bool) {
	tl, ok := r.timelines[string(value)]
	if !ok {
		return nil, false
	}
	return tl.Resolve(p)
}

// Tokenize turns text into token bytes at point p in the given language,
// greedy longest name first. Fails with *trie.UnknownLexemeError at the first
// position nothing matches.
func (r *Registry) Tokenize(text string, p osver.Point, lang string) ([]byte, error) {
	return r.index.Tokenize(text, p, lang)
}

// Decoded is one token of a detokenized byte sequence.
type Decoded struct {
	// Value is the token's full byte value, one or two bytes.
	Value []byte
	// Offset is where the token's bytes start in the input.
	Offset int
	// Display is the resolved translation's presentation string.
	Display string
	// Accessible is the resolved translation's typeable names. Re-encoding
	// with the longest eligible one reproduces the input bytes; picking a
	// shorter alias can legally tokenize to something else.
	Accessible []string
}

// UnknownTokenError reports a byte sequence position holding no token active
// at the queried point: an undeclared byte value, a two-byte prefix with a
// truncated or unknown sub-byte, or a token that did not exist at that
// model/OS combination.
type UnknownTokenError struct {
	Offset int
	Value  []byte
}

func (e *UnknownTokenError) Error() string {
	hex := ""
	for _, b := range e.Value {
		hex += fmt.Sprintf("$%02X", b)
	}
	return fmt.Sprintf("no token active for %s at offset %d", hex, e.Offset)
}

// Detokenize decodes a token byte sequence at point p, consuming two bytes
// wherever the leading byte opens a two-byte page — a trailing bare prefix is
// an error, never a partial token. Translations fall back to "en" when lang
// has none.
func (r *Registry) Detokenize(data []byte, p osver.Point, lang string) ([]Decoded, error) {
	var out []Decoded
	for i := 0; i < len(data); {
		value := data[i : i+1]
		if r.sheet.IsPrefix(data[i]) {
			if i+1 >= len(data) {
				return nil, &UnknownTokenError{Offset: i, Value: value}
			}
			value = data[i : i+2]
		}

		ver, ok := r.Resolve(value, p)
		if !ok {
			return nil, &UnknownTokenError{Offset: i, Value: value}
		}
		tr, ok := ver.Translation(lang)
		if !ok {
			return nil, &UnknownTokenError{Offset: i, Value: value}
		}

		out = append(out, Decoded{
			Value:      value,
			Offset:     i,
			Display:    tr.Display,
			Accessible: tr.Accessible,
		})
		i += len(value)
	}
	return out, nil
}
