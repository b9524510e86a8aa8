// Package export converts a built registry to the downstream formats of the
// project: the canonical JSON rendition of the sheet and TokenIDE token
// files. Exporters consume only the registry's read-only views; they never
// construct or mutate entities.
package export

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tokensheet/internal/osver"
	"tokensheet/internal/registry"
	"tokensheet/internal/sheet"
)

type jsonPoint struct {
	Model     string `json:"model"`
	OSVersion string `json:"os-version"`
}

type jsonLang struct {
	TIASCII    string   `json:"ti-ascii"`
	Display    string   `json:"display"`
	Accessible string   `json:"accessible"`
	Variants   []string `json:"variants,omitempty"`
}

type jsonVersion struct {
	Since jsonPoint           `json:"since"`
	Until *jsonPoint          `json:"until,omitempty"`
	Langs map[string]jsonLang `json:"langs"`
}

// JSON writes the sheet as a two-level byte map: single-byte tokens under
// their "$XX" key, two-byte tokens as "$XX" pages holding "$YY" sub-maps.
// Each token maps to its version records in timeline order.
func JSON(w io.Writer, reg *registry.Registry) error {
	top := make(map[string]any)

	for _, tok := range reg.Tokens() {
		versions := jsonVersions(reg, tok)
		key := fmt.Sprintf("$%02X", tok.Value[0])
		if len(tok.Value) == 1 {
			top[key] = versions
			continue
		}
		page, ok := top[key].(map[string]any)
		if !ok {
			page = make(map[string]any)
			top[key] = page
		}
		page[fmt.Sprintf("$%02X", tok.Value[1])] = versions
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(top)
}

// jsonVersions prefers the validated timeline order and falls back to
// document order for tokens the build excluded, so the export stays total.
func jsonVersions(reg *registry.Registry, tok *sheet.Token) []jsonVersion {
	records := tok.Versions
	if tl, ok := reg.TimelineOf(tok.Value); ok {
		records = tl.Records()
	}

	out := make([]jsonVersion, 0, len(records))
	for _, ver := range records {
		jv := jsonVersion{
			Since: pointJSON(ver.Since),
			Langs: make(map[string]jsonLang, len(ver.Langs)),
		}
		if ver.Until != nil {
			p := pointJSON(*ver.Until)
			jv.Until = &p
		}
		for code, tr := range ver.Langs {
			jl := jsonLang{
				TIASCII: strings.ToUpper(hex.EncodeToString(tr.TIASCII)),
				Display: tr.Display,
			}
			if len(tr.Accessible) > 0 {
				jl.Accessible = tr.Accessible[0]
				// Extra accessible names share the variants array.
				jl.Variants = append(jl.Variants, tr.Accessible[1:]...)
			}
			jl.Variants = append(jl.Variants, tr.Variants...)
			jv.Langs[code] = jl
		}
		out = append(out, jv)
	}
	return out
}

func pointJSON(p osver.Point) jsonPoint {
	return jsonPoint{Model: string(p.Model), OSVersion: p.Version.String()}
}
