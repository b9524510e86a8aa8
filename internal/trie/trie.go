// Package trie is the encode index of the registry: a prefix tree over every
// accessible and variant name of every token version, walked greedily to turn
// text into token bytes.
//
// Display strings never enter the trie — they are presentation-only and not
// guaranteed unique. Terminal nodes carry the owning (token, version,
// language) triple tagged with the token's full byte value, so a two-byte
// token matches only when its complete name path is walked; there is no
// separate prefix step to emit half a token.
package trie

import (
	"fmt"

	"tokensheet/internal/diag"
	"tokensheet/internal/osver"
	"tokensheet/internal/sheet"
	"tokensheet/internal/timeline"
)

// Entry records one name's owner at a terminal node.
type Entry struct {
	Token   *sheet.Token
	Version *sheet.Version
	Lang    string
	Name    string
}

type node struct {
	children map[byte]*node
	entries  []Entry
}

func (n *node) child(b byte) *node {
	if n.children == nil {
		return nil
	}
	return n.children[b]
}

func (n *node) ensureChild(b byte) *node {
	if n.children == nil {
		n.children = make(map[byte]*node)
	}
	c := n.children[b]
	if c == nil {
		c = &node{}
		n.children[b] = c
	}
	return c
}

// Trie is the built encode index. Immutable after Build; safe for
// unrestricted concurrent reads.
type Trie struct {
	root node
}

// Build indexes every typeable name of every timeline. Data defects — empty
// names, names repeated within one translation, one name owned by two
// versions whose intervals overlap in the same language — are reported
// through r instead of being silently overwritten.
func Build(timelines []*timeline.Timeline, r diag.Reporter) *Trie {
	tr := &Trie{}
	for _, tl := range timelines {
		tok := tl.Token()
		for _, ver := range tl.Records() {
			for lang, translation := range ver.Langs {
				seen := make(map[string]bool)
				for _, name := range translation.Names() {
					if name == "" {
						diag.ReportError(r, diag.NameEmpty, tok.Subject(), ver.Span,
							fmt.Sprintf("empty %s name cannot be typed", lang)).Emit()
						continue
					}
					if seen[name] {
						diag.ReportError(r, diag.NameDuplicate, tok.Subject(), ver.Span,
							fmt.Sprintf("name %q repeated within one %s translation", name, lang)).Emit()
						continue
					}
					seen[name] = true
					tr.insert(tok, ver, lang, name, r)
				}
			}
		}
	}
	return tr
}

func (t *Trie) insert(tok *sheet.Token, ver *sheet.Version, lang, name string, r diag.Reporter) {
	n := &t.root
	for i := 0; i < len(name); i++ {
		n = n.ensureChild(name[i])
	}

	for _, prev := range n.entries {
		if prev.Lang != lang {
			continue
		}
		overlap, err := timeline.Overlaps(prev.Version, ver)
		if err != nil || !overlap {
			continue
		}
		// Same name, same language, simultaneously valid somewhere on the
		// timeline: a lookup there could not pick a winner.
		diag.ReportError(r, diag.NameAmbiguous, tok.Subject(), ver.Span,
			fmt.Sprintf("name %q (%s) already names %s over an overlapping interval",
				name, lang, prev.Token)).
			WithNote(prev.Version.Span, fmt.Sprintf("other owner is %s %s", prev.Token, prev.Version.Interval())).
			Emit()
		return
	}

	n.entries = append(n.entries, Entry{Token: tok, Version: ver, Lang: lang, Name: name})
}

// UnknownLexemeError reports that no eligible name matches the input at
// Offset. The engine never guesses or skips characters; recovering is the
// caller's decision.
type UnknownLexemeError struct {
	Offset int
}

func (e *UnknownLexemeError) Error() string {
	return fmt.Sprintf("no token name matches input at offset %d", e.Offset)
}

// AmbiguousLexemeError reports that two eligible names tie for the same
// maximal prefix — a data defect the build-time check should have caught,
// surfaced instead of resolved arbitrarily.
type AmbiguousLexemeError struct {
	Offset int
	Name   string
}

func (e *AmbiguousLexemeError) Error() string {
	return fmt.Sprintf("name %q at offset %d is claimed by several tokens at once", e.Name, e.Offset)
}

// Tokenize scans the input left to right, at each position consuming the
// longest name eligible at point p in the given language, and emits the
// matched tokens' byte values. Eligibility means the owning version's
// interval contains p and the entry's language is lang — or "en" when the
// owning version has no lang translation, mirroring the translation fallback.
func (t *Trie) Tokenize(input string, p osver.Point, lang string) ([]byte, error) {
	var out []byte
	cur := NewCursor(input)

	for !cur.EOF() {
		start := int(cur.Off)
		entry, length, err := t.longestMatch(&cur, p, lang)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, &UnknownLexemeError{Offset: start}
		}
		cur.Reset(Mark(uint32(start) + uint32(length)))
		out = append(out, entry.Token.Value...)
	}
	return out, nil
}

// longestMatch walks the trie from the cursor position and returns the
// deepest eligible terminal entry with its matched length. The cursor is
// left wherever the walk stopped; the caller repositions it.
func (t *Trie) longestMatch(cur *Cursor, p osver.Point, lang string) (*Entry, int, error) {
	var (
		best    *Entry
		bestLen int
	)
	n := &t.root
	start := cur.Mark()
	for {
		if len(n.entries) > 0 {
			entry, err := eligible(n.entries, p, lang, int(start))
			if err != nil {
				return nil, 0, err
			}
			if entry != nil {
				best = entry
				bestLen = int(cur.Off) - int(start)
			}
		}
		if cur.EOF() {
			break
		}
		next := n.child(cur.Peek())
		if next == nil {
			break
		}
		cur.Bump()
		n = next
	}
	return best, bestLen, nil
}

// eligible picks the single entry valid at p in lang. By the uniqueness
// invariant at most one can qualify; a second one is bad data.
func eligible(entries []Entry, p osver.Point, lang string, offset int) (*Entry, error) {
	var found *Entry
	for i := range entries {
		e := &entries[i]
		if e.Lang != lang && !(e.Lang == "en" && !e.Version.HasLang(lang)) {
			continue
		}
		in, err := timeline.Contains(e.Version, p)
		if err != nil {
			return nil, err
		}
		if !in {
			continue
		}
		if found != nil {
			return nil, &AmbiguousLexemeError{Offset: offset, Name: e.Name}
		}
		found = e
	}
	return found, nil
}
