package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tokensheet/internal/osver"
	"tokensheet/internal/registry"
	"tokensheet/internal/sheet"
)

const sampleDoc = `<tokens>
  <token value="$2A">
    <version>
      <since><model>TI-82</model><os-version>1.0</os-version></since>
      <lang code="en" ti-ascii="2A"><display>"</display><accessible>"</accessible></lang>
    </version>
  </token>
  <token value="$BA">
    <version>
      <since><model>TI-82</model><os-version>1.0</os-version></since>
      <until><model>TI-83</model><os-version>0.0103</os-version></until>
      <lang code="en" ti-ascii="BA"><display>u(n-2)</display><accessible>u(n-2)</accessible></lang>
    </version>
    <version>
      <since><model>TI-83</model><os-version>0.0103</os-version></since>
      <lang code="en" ti-ascii="BA"><display>u(n-2)</display><accessible>u(nMin-2)</accessible><variant>u(n-2)</variant></lang>
    </version>
  </token>
  <two-byte value="$BB">
    <token value="$31">
      <version>
        <since><model>TI-83+</model><os-version>0.0103</os-version></since>
        <lang code="en" ti-ascii="BB31"><display>sigma</display><accessible>sigma</accessible><variant>stdDev</variant></lang>
      </version>
    </token>
  </two-byte>
</tokens>`

func buildSample(t *testing.T) *registry.Registry {
	t.Helper()
	sh, err := sheet.Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	reg, bag := registry.Build(sh, registry.Options{})
	if bag.HasErrors() {
		t.Fatalf("sample sheet has errors")
	}
	return reg
}

func pt(t *testing.T, model, version string) osver.Point {
	t.Helper()
	p, err := osver.ParsePoint(model, version)
	if err != nil {
		t.Fatalf("ParsePoint: %v", err)
	}
	return p
}

func TestJSONShape(t *testing.T) {
	reg := buildSample(t)
	var buf bytes.Buffer
	if err := JSON(&buf, reg); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &top); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"$2A", "$BA", "$BB"} {
		if _, ok := top[key]; !ok {
			t.Fatalf("top level is missing %s: %v", key, keysOf(top))
		}
	}

	var page map[string]json.RawMessage
	if err := json.Unmarshal(top["$BB"], &page); err != nil {
		t.Fatalf("$BB page: %v", err)
	}
	if _, ok := page["$31"]; !ok {
		t.Fatal("$BB page is missing $31")
	}

	var versions []struct {
		Since struct {
			Model     string `json:"model"`
			OSVersion string `json:"os-version"`
		} `json:"since"`
		Until *struct{} `json:"until"`
		Langs map[string]struct {
			TIASCII    string   `json:"ti-ascii"`
			Accessible string   `json:"accessible"`
			Variants   []string `json:"variants"`
		} `json:"langs"`
	}
	if err := json.Unmarshal(top["$BA"], &versions); err != nil {
		t.Fatalf("$BA versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("$BA has %d versions, want 2", len(versions))
	}
	if versions[0].Since.Model != "TI-82" || versions[0].Until == nil {
		t.Errorf("first version = %+v", versions[0])
	}
	if versions[1].Until != nil {
		t.Error("open-ended record exported an until")
	}
	en := versions[1].Langs["en"]
	if en.TIASCII != "BA" || en.Accessible != "u(nMin-2)" {
		t.Errorf("second en = %+v", en)
	}
	if len(en.Variants) != 1 || en.Variants[0] != "u(n-2)" {
		t.Errorf("second variants = %v", en.Variants)
	}
	// Single-entry variants arrays stay; empty ones are elided.
	if strings.Contains(string(top["$2A"]), `"variants"`) {
		t.Error("empty variants array was not elided")
	}
}

func TestTokenIDEExport(t *testing.T) {
	reg := buildSample(t)
	var buf bytes.Buffer
	if err := TokenIDE(&buf, reg, pt(t, "latest", ""), "en"); err != nil {
		t.Fatalf("TokenIDE: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`xmlns="http://merthsoft.com/Tokens"`,
		`<Token byte="$BA" string="u(nMin-2)">`,
		`<Token byte="$BB">`,
		`byte="$31" string="sigma"`,
		`<Alt string="stdDev">`,
		`stringStarter="true"`,
		`stringTerminator="true"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("TokenIDE output missing %s\n%s", want, out)
		}
	}
	// $2A is both a starter and a terminator; $04/$3F are absent from the
	// sample so only one terminator attribute may appear.
	if strings.Count(out, `stringTerminator="true"`) != 1 {
		t.Errorf("unexpected terminator count:\n%s", out)
	}
}

func TestTokenIDEScopesToPoint(t *testing.T) {
	reg := buildSample(t)
	var buf bytes.Buffer
	// On the TI-82 the $BB page does not exist yet.
	if err := TokenIDE(&buf, reg, pt(t, "TI-82", "1.0"), "en"); err != nil {
		t.Fatalf("TokenIDE: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "$BB") {
		t.Error("TI-82 export contains the $BB page")
	}
	if !strings.Contains(out, `string="u(n-2)"`) {
		t.Error("TI-82 export lost the original u(n-2) record")
	}
}

func keysOf(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
