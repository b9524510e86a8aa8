package sheet

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/language"

	"tokensheet/internal/diag"
	"tokensheet/internal/osver"
)

// DecodeError reports a structural defect in the sheet document. Structural
// defects abort decoding: there is no entity graph to attach them to, so they
// cannot be collected the way timeline defects are.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sheet: offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	byteAttrRE = regexp.MustCompile(`^\$[0-9A-F]{2}$`)
	langCodeRE = regexp.MustCompile(`^[a-z]{2}$`)
)

// Wire shapes for xml.Decoder. Converted to entities with shape checks in
// buildToken; never exposed.
type xmlPoint struct {
	Model     string `xml:"model"`
	OSVersion string `xml:"os-version"`
}

type xmlLang struct {
	Code       string   `xml:"code,attr"`
	TIASCII    string   `xml:"ti-ascii,attr"`
	Display    *string  `xml:"display"`
	Accessible []string `xml:"accessible"`
	Variants   []string `xml:"variant"`
}

type xmlVersion struct {
	Since []xmlPoint `xml:"since"`
	Until []xmlPoint `xml:"until"`
	Langs []xmlLang  `xml:"lang"`
}

type xmlToken struct {
	Value    string       `xml:"value,attr"`
	Versions []xmlVersion `xml:"version"`
}

// Decode parses a token sheet document into its entity graph. The grammar is
//
//	<tokens>
//	  <token value="$XX"> <version>…</version>+ </token>
//	  <two-byte value="$XX"> <token value="$XX">…</token>+ </two-byte>
//	</tokens>
//
// with each <version> carrying a required <since>, an optional <until>
// (each a <model> plus <os-version> pair) and one <lang> per language with a
// required <display> and at least one <accessible>. Only document shape is
// enforced here; interval and name consistency are build-time concerns.
func Decode(r io.Reader) (*Sheet, error) {
	d := xml.NewDecoder(r)

	root, err := nextStart(d)
	if err != nil {
		return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
	}
	if root.Name.Local != "tokens" {
		return nil, &DecodeError{Offset: d.InputOffset(), Err: fmt.Errorf("root element is <%s>, not <tokens>", root.Name.Local)}
	}

	var (
		tokens   []*Token
		prefixes []byte
		seen     = map[string]bool{}
	)

	addToken := func(tok *Token) error {
		key := string(tok.Value)
		if seen[key] {
			return fmt.Errorf("duplicate token byte %s", tok)
		}
		seen[key] = true
		tokens = append(tokens, tok)
		return nil
	}

	for {
		start, err := nextStart(d)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
		}

		switch start.Name.Local {
		case "token":
			tok, err := decodeToken(d, start, nil)
			if err != nil {
				return nil, err
			}
			if err := addToken(tok); err != nil {
				return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
			}

		case "two-byte":
			prefix, err := byteAttr(start, "value")
			if err != nil {
				return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
			}
			prefixes = append(prefixes, prefix)
			subs, err := decodePage(d, prefix)
			if err != nil {
				return nil, err
			}
			for _, tok := range subs {
				if err := addToken(tok); err != nil {
					return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
				}
			}

		default:
			return nil, &DecodeError{
				Offset: d.InputOffset(),
				Err:    fmt.Errorf("<%s> is not a valid child of <tokens>", start.Name.Local),
			}
		}
	}

	return New(tokens, prefixes), nil
}

// decodePage reads the <token> children of a <two-byte> page until its end
// element.
func decodePage(d *xml.Decoder, prefix byte) ([]*Token, error) {
	var out []*Token
	for {
		tk, err := d.Token()
		if err != nil {
			return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
		}
		switch t := tk.(type) {
		case xml.StartElement:
			if t.Name.Local != "token" {
				return nil, &DecodeError{
					Offset: d.InputOffset(),
					Err:    fmt.Errorf("<%s> is not a valid child of <two-byte>", t.Name.Local),
				}
			}
			tok, err := decodeToken(d, t, []byte{prefix})
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		case xml.EndElement:
			return out, nil
		}
	}
}

// decodeToken consumes one <token> element, already opened by start, and
// converts it to an entity. A non-nil prefix nests the token under a
// two-byte page: the entity carries the full byte value.
func decodeToken(d *xml.Decoder, start xml.StartElement, prefix []byte) (*Token, error) {
	spanStart := d.InputOffset()

	var raw xmlToken
	if err := d.DecodeElement(&raw, &start); err != nil {
		return nil, &DecodeError{Offset: d.InputOffset(), Err: err}
	}

	tok, err := buildToken(&raw, prefix, spanAt(spanStart, d.InputOffset()))
	if err != nil {
		return nil, &DecodeError{Offset: spanStart, Err: err}
	}
	return tok, nil
}

func buildToken(raw *xmlToken, prefix []byte, span diag.Span) (*Token, error) {
	sub, err := parseByteValue(raw.Value)
	if err != nil {
		return nil, fmt.Errorf("<token>: %w", err)
	}
	value := append(append([]byte{}, prefix...), sub)

	tok := &Token{Value: value, Span: span}
	if len(raw.Versions) == 0 {
		return nil, fmt.Errorf("token %s has no <version> elements", tok)
	}

	for i := range raw.Versions {
		ver, err := buildVersion(&raw.Versions[i], span)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", tok, err)
		}
		tok.Versions = append(tok.Versions, ver)
	}
	return tok, nil
}

func buildVersion(raw *xmlVersion, span diag.Span) (*Version, error) {
	if len(raw.Since) == 0 {
		return nil, fmt.Errorf("<version> has no <since>")
	}
	if len(raw.Since) > 1 {
		return nil, fmt.Errorf("<version> has %d <since> elements, want one", len(raw.Since))
	}
	if len(raw.Until) > 1 {
		return nil, fmt.Errorf("<version> has %d <until> elements, want at most one", len(raw.Until))
	}
	if len(raw.Langs) == 0 {
		return nil, fmt.Errorf("<version> has no <lang>")
	}

	since, err := buildPoint(&raw.Since[0], "since")
	if err != nil {
		return nil, err
	}
	ver := &Version{Since: since, Langs: make(map[string]*Translation, len(raw.Langs)), Span: span}
	if len(raw.Until) == 1 {
		until, err := buildPoint(&raw.Until[0], "until")
		if err != nil {
			return nil, err
		}
		ver.Until = &until
	}

	for i := range raw.Langs {
		code, tr, err := buildTranslation(&raw.Langs[i])
		if err != nil {
			return nil, err
		}
		if _, dup := ver.Langs[code]; dup {
			return nil, fmt.Errorf("duplicate <lang code=%q>", code)
		}
		ver.Langs[code] = tr
	}
	return ver, nil
}

// buildPoint converts a <since> or <until> element. The "latest" pseudo-model
// is for queries only and never legal inside a sheet.
func buildPoint(raw *xmlPoint, tag string) (osver.Point, error) {
	model := strings.TrimSpace(raw.Model)
	if model == "" {
		return osver.Point{}, fmt.Errorf("<%s> has a missing or empty <model>", tag)
	}
	if osver.Model(model) == osver.Latest {
		return osver.Point{}, fmt.Errorf("<%s> names the %q pseudo-model; sheets must name hardware", tag, model)
	}
	osv := strings.TrimSpace(raw.OSVersion)
	if osv == "" {
		return osver.Point{}, fmt.Errorf("<%s> has a missing or empty <os-version>", tag)
	}
	v, err := osver.ParseVersion(osv)
	if err != nil {
		return osver.Point{}, fmt.Errorf("<%s>: %w", tag, err)
	}
	// Unknown models stay in the graph; the timeline builder reports them so
	// one bad model name does not abort the whole sheet.
	return osver.Point{Model: osver.Model(model), Version: v}, nil
}

func buildTranslation(raw *xmlLang) (string, *Translation, error) {
	if !langCodeRE.MatchString(raw.Code) {
		return "", nil, fmt.Errorf("<lang> code %q is not a two-letter lowercase code", raw.Code)
	}
	if _, err := language.Parse(raw.Code); err != nil {
		return "", nil, fmt.Errorf("<lang> code %q: %w", raw.Code, err)
	}
	if raw.TIASCII == "" {
		return "", nil, fmt.Errorf("<lang code=%q> has no ti-ascii attribute", raw.Code)
	}
	ascii, err := hex.DecodeString(raw.TIASCII)
	if err != nil {
		return "", nil, fmt.Errorf("<lang code=%q> ti-ascii %q is not hex", raw.Code, raw.TIASCII)
	}
	if raw.Display == nil || *raw.Display == "" {
		return "", nil, fmt.Errorf("<lang code=%q> has no <display>", raw.Code)
	}
	if len(raw.Accessible) == 0 {
		return "", nil, fmt.Errorf("<lang code=%q> has no <accessible>", raw.Code)
	}

	return raw.Code, &Translation{
		TIASCII:    ascii,
		Display:    *raw.Display,
		Accessible: append([]string{}, raw.Accessible...),
		Variants:   append([]string{}, raw.Variants...),
	}, nil
}

// parseByteValue parses a "$HH" byte attribute value.
func parseByteValue(s string) (byte, error) {
	if !byteAttrRE.MatchString(s) {
		return 0, fmt.Errorf("value %q does not match $HH", s)
	}
	b, err := hex.DecodeString(s[1:])
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func byteAttr(start xml.StartElement, name string) (byte, error) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			b, err := parseByteValue(a.Value)
			if err != nil {
				return 0, fmt.Errorf("<%s>: %w", start.Name.Local, err)
			}
			return b, nil
		}
	}
	return 0, fmt.Errorf("<%s> does not have attribute %s", start.Name.Local, name)
}

// nextStart skips to the next start element at the decoder's current depth.
func nextStart(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tk, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tk.(type) {
		case xml.StartElement:
			return t, nil
		case xml.EndElement:
			return xml.StartElement{}, io.EOF
		}
	}
}

func spanAt(start, end int64) diag.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return diag.Span{}
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return diag.Span{}
	}
	return diag.Span{Start: s, End: e}
}
