package sheet

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"tokensheet/internal/diag"
	"tokensheet/internal/osver"
)

// Translation is one language's rendering of a token over one version
// interval. TIASCII is the raw calculator font bytes and plays no role in
// tokenization; Display is presentation-only and not guaranteed unique;
// Accessible and Variants are the typeable names the tokenizer matches on.
type Translation struct {
	TIASCII    []byte
	Display    string
	Accessible []string
	Variants   []string
}

// Names returns every typeable name of the translation, accessible names
// first, in document order.
func (tr *Translation) Names() []string {
	out := make([]string, 0, len(tr.Accessible)+len(tr.Variants))
	out = append(out, tr.Accessible...)
	out = append(out, tr.Variants...)
	return out
}

// Version is one record of a token's history: the half-open interval
// [Since, Until) on the global timeline, with per-language translations.
// A nil Until means the record is still current.
type Version struct {
	Since osver.Point
	Until *osver.Point
	Langs map[string]*Translation

	// Span locates the <version> element in the sheet document.
	Span diag.Span
}

// Translation returns the record's translation for the requested language,
// falling back to "en" when the language has none.
func (v *Version) Translation(lang string) (*Translation, bool) {
	if tr, ok := v.Langs[lang]; ok {
		return tr, true
	}
	tr, ok := v.Langs["en"]
	return tr, ok
}

// HasLang reports whether the record carries a translation for the language
// itself, without the "en" fallback.
func (v *Version) HasLang(lang string) bool {
	_, ok := v.Langs[lang]
	return ok
}

// Interval renders the record's interval for messages, e.g.
// "[TI-82 1.0, TI-83 0.0103)".
func (v *Version) Interval() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(v.Since.String())
	b.WriteString(", ")
	if v.Until == nil {
		b.WriteString("current")
	} else {
		b.WriteString(v.Until.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Token is one lexical unit of the calculator dialect, identified by its
// byte value: one byte, or two when nested under a two-byte prefix. A token
// owns its version records exclusively; records are kept in document order
// until the timeline builder sorts and validates them.
type Token struct {
	Value    []byte
	Versions []*Version

	// Span locates the <token> element in the sheet document.
	Span diag.Span
}

// String renders the byte value the way the sheet spells it, e.g. "$BB$31".
func (t *Token) String() string {
	var b strings.Builder
	for _, by := range t.Value {
		fmt.Fprintf(&b, "$%02X", by)
	}
	return b.String()
}

// Subject names the token in diagnostics, e.g. "token 0xBB31".
func (t *Token) Subject() string {
	var b strings.Builder
	b.WriteString("token 0x")
	for _, by := range t.Value {
		fmt.Fprintf(&b, "%02X", by)
	}
	return b.String()
}

// Sheet is the loaded entity graph. Tokens are sorted by byte value;
// Prefixes records every declared two-byte prefix, including prefixes whose
// page turned out empty.
type Sheet struct {
	Tokens   []*Token
	Prefixes []byte
}

// New builds a sheet over the given tokens, fixing the canonical byte-value
// order regardless of document order.
func New(tokens []*Token, prefixes []byte) *Sheet {
	sort.Slice(tokens, func(i, j int) bool {
		return bytes.Compare(tokens[i].Value, tokens[j].Value) < 0
	})
	sort.Slice(prefixes, func(i, j int) bool { return prefixes[i] < prefixes[j] })
	return &Sheet{Tokens: tokens, Prefixes: prefixes}
}

// Lookup finds the token with the given byte value.
func (s *Sheet) Lookup(value []byte) (*Token, bool) {
	i := sort.Search(len(s.Tokens), func(i int) bool {
		return bytes.Compare(s.Tokens[i].Value, value) >= 0
	})
	if i < len(s.Tokens) && bytes.Equal(s.Tokens[i].Value, value) {
		return s.Tokens[i], true
	}
	return nil, false
}

// IsPrefix reports whether b opens a two-byte token page.
func (s *Sheet) IsPrefix(b byte) bool {
	for _, p := range s.Prefixes {
		if p == b {
			return true
		}
	}
	return false
}
