package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"tokensheet/internal/osver"
	"tokensheet/internal/registry"
)

// Namespace of TokenIDE token files.
const tokenIDENamespace = "http://merthsoft.com/Tokens"

const tokenIDEComment = `
TokenIDE-compatible token file generated from the token sheets.

TokenIDE created by
Shaun McFall, Merthsoft Creations
`

// String delimiter bytes get the stringStarter/stringTerminator attributes
// TokenIDE keys its syntax highlighting on.
var (
	ideStarters    = [][]byte{{0x2A}}
	ideTerminators = [][]byte{{0x04}, {0x2A}, {0x3F}}
)

type ideAlt struct {
	XMLName xml.Name `xml:"Alt"`
	String  string   `xml:"string,attr"`
}

type ideToken struct {
	XMLName          xml.Name `xml:"Token"`
	Byte             string   `xml:"byte,attr"`
	String           string   `xml:"string,attr,omitempty"`
	StringStarter    string   `xml:"stringStarter,attr,omitempty"`
	StringTerminator string   `xml:"stringTerminator,attr,omitempty"`
	Alts             []ideAlt `xml:"Alt"`
	Tokens           []ideToken
}

type ideSheet struct {
	XMLName xml.Name `xml:"Tokens"`
	Xmlns   string   `xml:"xmlns,attr"`
	XmlnsXsi string  `xml:"xmlns:xsi,attr"`
	XmlnsXsd string  `xml:"xmlns:xsd,attr"`
	Tokens  []ideToken
}

// TokenIDE writes a TokenIDE token file scoped to the tokens active at the
// given point. The primary string is the token's first accessible name; every
// other name that is unique across the whole scope becomes an Alt, as does
// the display string when it is unique and differs from the primary.
func TokenIDE(w io.Writer, reg *registry.Registry, at osver.Point, lang string) error {
	// Names shared by several tokens at this point cannot be alternates:
	// TokenIDE would tokenize them to whichever token it met first.
	nameCount := make(map[string]int)
	type active struct {
		value      []byte
		display    string
		accessible []string
		variants   []string
	}
	var scope []active

	for _, tok := range reg.Tokens() {
		ver, ok := reg.Resolve(tok.Value, at)
		if !ok {
			continue
		}
		tr, ok := ver.Translation(lang)
		if !ok {
			continue
		}
		scope = append(scope, active{
			value:      tok.Value,
			display:    tr.Display,
			accessible: tr.Accessible,
			variants:   tr.Variants,
		})
		for _, name := range tr.Accessible {
			nameCount[name]++
		}
		for _, name := range tr.Variants {
			nameCount[name]++
		}
		nameCount[tr.Display]++
	}

	// Two-level page structure mirroring the byte layout.
	pages := make(map[byte]*ideToken)
	var order []byte
	pageFor := func(b byte) *ideToken {
		p, ok := pages[b]
		if !ok {
			p = &ideToken{Byte: fmt.Sprintf("$%02X", b)}
			pages[b] = p
			order = append(order, b)
		}
		return p
	}

	for _, a := range scope {
		entry := pageFor(a.value[0])
		if len(a.value) == 2 {
			entry.Tokens = append(entry.Tokens, ideToken{Byte: fmt.Sprintf("$%02X", a.value[1])})
			entry = &entry.Tokens[len(entry.Tokens)-1]
		}

		primary := a.display
		if len(a.accessible) > 0 {
			primary = a.accessible[0]
		}
		entry.String = primary

		seen := map[string]bool{primary: true}
		addAlt := func(name string) {
			if seen[name] || nameCount[name] != 1 {
				return
			}
			seen[name] = true
			entry.Alts = append(entry.Alts, ideAlt{String: name})
		}
		for _, name := range a.accessible {
			addAlt(name)
		}
		for _, name := range a.variants {
			addAlt(name)
		}
		addAlt(a.display)

		if matchesAny(a.value, ideStarters) {
			entry.StringStarter = "true"
		}
		if matchesAny(a.value, ideTerminators) {
			entry.StringTerminator = "true"
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	root := ideSheet{
		Xmlns:    tokenIDENamespace,
		XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
		XmlnsXsd: "http://www.w3.org/2001/XMLSchema",
	}
	for _, b := range order {
		p := pages[b]
		sort.Slice(p.Tokens, func(i, j int) bool { return p.Tokens[i].Byte < p.Tokens[j].Byte })
		root.Tokens = append(root.Tokens, *p)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<!--%s-->\n", tokenIDEComment); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func matchesAny(value []byte, set [][]byte) bool {
	for _, s := range set {
		if bytes.Equal(s, value) {
			return true
		}
	}
	return false
}
