// Package testkit provides invariant checkers shared by tests: the structural
// properties every built registry must hold regardless of input data.
package testkit

import (
	"bytes"
	"fmt"
	"strings"

	"tokensheet/internal/osver"
	"tokensheet/internal/registry"
	"tokensheet/internal/timeline"
)

// CheckTimelineDisjoint verifies that a timeline's records are sorted by
// Since and pairwise disjoint, with at most the last record open-ended.
func CheckTimelineDisjoint(tl *timeline.Timeline) error {
	records := tl.Records()
	for i, ver := range records {
		last := i == len(records)-1
		if ver.Until == nil {
			if !last {
				return fmt.Errorf("%s: record %d is open-ended but not last", tl.Token(), i)
			}
			continue
		}
		if c, err := ver.Since.Compare(*ver.Until); err != nil || c > 0 {
			return fmt.Errorf("%s: record %d interval %s is inverted (%v)", tl.Token(), i, ver.Interval(), err)
		}
		if !last {
			next := records[i+1]
			if c, err := ver.Until.Compare(next.Since); err != nil || c > 0 {
				return fmt.Errorf("%s: records %d and %d overlap (%v)", tl.Token(), i, i+1, err)
			}
		}
	}
	return nil
}

// CheckSingleMatch verifies that Resolve finds a record exactly when one
// interval contains the point, never more than one.
func CheckSingleMatch(tl *timeline.Timeline, points []osver.Point) error {
	for _, p := range points {
		matches := 0
		for _, ver := range tl.Records() {
			in, err := timeline.Contains(ver, p)
			if err != nil {
				return fmt.Errorf("%s: Contains(%s): %w", tl.Token(), p, err)
			}
			if in {
				matches++
			}
		}
		if matches > 1 {
			return fmt.Errorf("%s: point %s is inside %d intervals", tl.Token(), p, matches)
		}
		if _, found := tl.Resolve(p); found != (matches == 1) {
			return fmt.Errorf("%s: Resolve(%s) found=%v but %d intervals contain it", tl.Token(), p, found, matches)
		}
	}
	return nil
}

// CheckRoundTrip detokenizes the sequence, re-encodes each token through its
// longest accessible name and verifies the bytes come back identical — the
// round-trip contract of the engine.
func CheckRoundTrip(reg *registry.Registry, seq []byte, p osver.Point, lang string) error {
	decoded, err := reg.Detokenize(seq, p, lang)
	if err != nil {
		return fmt.Errorf("detokenize %#x: %w", seq, err)
	}
	var text strings.Builder
	for _, d := range decoded {
		longest := ""
		for _, name := range d.Accessible {
			if len(name) > len(longest) {
				longest = name
			}
		}
		if longest == "" {
			return fmt.Errorf("token %#x has no accessible name at %s", d.Value, p)
		}
		text.WriteString(longest)
	}
	back, err := reg.Tokenize(text.String(), p, lang)
	if err != nil {
		return fmt.Errorf("tokenize %q: %w", text.String(), err)
	}
	if !bytes.Equal(back, seq) {
		return fmt.Errorf("round trip %#x -> %q -> %#x", seq, text.String(), back)
	}
	return nil
}

// CheckNameUniqueness verifies that no name resolves ambiguously across the
// registry at the given point: every accessible and variant string eligible
// at p in a language is claimed by exactly one (token, version).
func CheckNameUniqueness(reg *registry.Registry, p osver.Point, lang string) error {
	owners := make(map[string][]byte)
	for _, tok := range reg.Tokens() {
		ver, ok := reg.Resolve(tok.Value, p)
		if !ok {
			continue
		}
		tr, ok := ver.Translation(lang)
		if !ok {
			continue
		}
		for _, name := range tr.Names() {
			if prev, clash := owners[name]; clash && !bytes.Equal(prev, tok.Value) {
				return fmt.Errorf("name %q at %s names both %#x and %#x", name, p, prev, tok.Value)
			}
			owners[name] = tok.Value
		}
	}
	return nil
}
