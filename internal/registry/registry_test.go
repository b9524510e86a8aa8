package registry

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"tokensheet/internal/diag"
	"tokensheet/internal/osver"
	"tokensheet/internal/sheet"
	"tokensheet/internal/trie"
)

func buildSample(t *testing.T) (*Registry, *diag.Bag) {
	t.Helper()
	f, err := os.Open("testdata/sample.xml")
	if err != nil {
		t.Fatalf("open testdata: %v", err)
	}
	defer f.Close()
	sh, err := sheet.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return Build(sh, Options{})
}

func pt(t *testing.T, model, version string) osver.Point {
	t.Helper()
	p, err := osver.ParsePoint(model, version)
	if err != nil {
		t.Fatalf("ParsePoint(%s, %s): %v", model, version, err)
	}
	return p
}

func TestBuildSampleIsClean(t *testing.T) {
	reg, bag := buildSample(t)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("sample sheet reported: %s", diag.FormatShortDiagnostics(bag.Items(), true))
	}
	if got := len(reg.Tokens()); got != 5 {
		t.Fatalf("Tokens() = %d entries, want 5", got)
	}
	if _, ok := reg.TimelineOf([]byte{0xBA}); !ok {
		t.Fatal("no timeline for $BA")
	}
}

// The concrete $BA scenario: resolve inside and outside its first interval,
// tokenize its accessible name, detokenize back to display and accessible.
func TestResolveTokenizeDetokenizeScenario(t *testing.T) {
	reg, _ := buildSample(t)
	at := pt(t, "TI-82", "1.5")

	ver, ok := reg.Resolve([]byte{0xBA}, at)
	if !ok {
		t.Fatal("Resolve($BA, TI-82 1.5) = NotFound")
	}
	if ver.Until == nil || ver.Until.Model != "TI-83" {
		t.Errorf("resolved the wrong record: %s", ver.Interval())
	}

	// $BA existed on the TI-84+ too, but under its renamed record.
	ver2, ok := reg.Resolve([]byte{0xBA}, pt(t, "TI-84+", "2.0"))
	if !ok || ver2 == ver {
		t.Error("Resolve($BA, TI-84+ 2.0) should find the successor record")
	}

	data, err := reg.Tokenize("u(n-2)", at, "en")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if !bytes.Equal(data, []byte{0xBA}) {
		t.Fatalf("Tokenize(u(n-2)) = %#x, want [0xBA]", data)
	}

	decoded, err := reg.Detokenize(data, at, "en")
	if err != nil {
		t.Fatalf("Detokenize: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("Detokenize returned %d tokens, want 1", len(decoded))
	}
	if decoded[0].Display != "u(\U0001d45b-2)" {
		t.Errorf("Display = %q", decoded[0].Display)
	}
	if len(decoded[0].Accessible) != 1 || decoded[0].Accessible[0] != "u(n-2)" {
		t.Errorf("Accessible = %v, want [u(n-2)]", decoded[0].Accessible)
	}
}

func TestRoundTrip(t *testing.T) {
	reg, _ := buildSample(t)
	at := pt(t, "TI-84+CE", "5.3")

	// $BB$00 and $BB$31 are active on the CE; $BA is too via its open record.
	seq := []byte{0xBB, 0x00, 0xBA, 0xBB, 0x31}
	decoded, err := reg.Detokenize(seq, at, "en")
	if err != nil {
		t.Fatalf("Detokenize: %v", err)
	}

	// Re-encode each token through its longest accessible name; this is the
	// caller contract under which the round trip is exact.
	var text strings.Builder
	for _, d := range decoded {
		longest := ""
		for _, name := range d.Accessible {
			if len(name) > len(longest) {
				longest = name
			}
		}
		text.WriteString(longest)
	}
	back, err := reg.Tokenize(text.String(), at, "en")
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", text.String(), err)
	}
	if !bytes.Equal(back, seq) {
		t.Fatalf("round trip %#x -> %q -> %#x", seq, text.String(), back)
	}
}

func TestDetokenizeBarePrefixFails(t *testing.T) {
	reg, _ := buildSample(t)
	at := pt(t, "TI-84+CE", "5.3")

	_, err := reg.Detokenize([]byte{0xBB}, at, "en")
	var unknown *UnknownTokenError
	if !errors.As(err, &unknown) {
		t.Fatalf("Detokenize($BB) = %v, want *UnknownTokenError", err)
	}
	if unknown.Offset != 0 {
		t.Errorf("Offset = %d, want 0", unknown.Offset)
	}

	// An unknown sub-byte under the prefix must not fall back to one byte.
	_, err = reg.Detokenize([]byte{0xBB, 0xFF}, at, "en")
	if !errors.As(err, &unknown) {
		t.Fatalf("Detokenize($BB$FF) = %v, want *UnknownTokenError", err)
	}
}

func TestDetokenizeBeforeIntroduction(t *testing.T) {
	reg, _ := buildSample(t)
	// $BB$00 arrived with the TI-83+; querying it on the TI-82 finds nothing.
	_, err := reg.Detokenize([]byte{0xBB, 0x00}, pt(t, "TI-82", "1.0"), "en")
	var unknown *UnknownTokenError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want *UnknownTokenError", err)
	}
}

func TestTokenizeUnknownLexemeSurfaces(t *testing.T) {
	reg, _ := buildSample(t)
	_, err := reg.Tokenize("u(n-2)???", pt(t, "TI-82", "1.5"), "en")
	var unknown *trie.UnknownLexemeError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want *trie.UnknownLexemeError", err)
	}
	if unknown.Offset != 6 {
		t.Errorf("Offset = %d, want 6", unknown.Offset)
	}
}

// One broken token must not block the rest of the corpus.
func TestBuildKeepsCorpusOnBadToken(t *testing.T) {
	doc := `<tokens>
	  <token value="$01"><version>
	    <since><model>TI-82</model><os-version>1.0</os-version></since>
	    <lang code="en" ti-ascii="01"><display>ok</display><accessible>ok</accessible></lang>
	  </version></token>
	  <token value="$02">
	    <version>
	      <since><model>TI-82</model><os-version>1.0</os-version></since>
	      <until><model>TI-84+</model><os-version>1.0</os-version></until>
	      <lang code="en" ti-ascii="02"><display>bad</display><accessible>bad</accessible></lang>
	    </version>
	    <version>
	      <since><model>TI-83</model><os-version>1.0</os-version></since>
	      <lang code="en" ti-ascii="02"><display>bad2</display><accessible>bad2</accessible></lang>
	    </version>
	  </token>
	</tokens>`
	sh, err := sheet.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	reg, bag := Build(sh, Options{})
	if !bag.HasErrors() {
		t.Fatal("overlapping $02 records reported nothing")
	}
	if _, ok := reg.TimelineOf([]byte{0x02}); ok {
		t.Error("broken token kept a timeline")
	}
	if _, ok := reg.Resolve([]byte{0x01}, pt(t, "TI-83", "1.0")); !ok {
		t.Error("healthy token stopped resolving")
	}
	if _, err := reg.Tokenize("ok", pt(t, "TI-83", "1.0"), "en"); err != nil {
		t.Errorf("healthy token stopped tokenizing: %v", err)
	}
}

func TestBuildDeterministicDiagnostics(t *testing.T) {
	doc := `<tokens>
	  <token value="$01"><version>
	    <since><model>TI-98</model><os-version>1.0</os-version></since>
	    <lang code="en" ti-ascii="01"><display>a</display><accessible>a</accessible></lang>
	  </version></token>
	  <token value="$02"><version>
	    <since><model>TI-99</model><os-version>1.0</os-version></since>
	    <lang code="en" ti-ascii="02"><display>b</display><accessible>b</accessible></lang>
	  </version></token>
	</tokens>`

	var want string
	for i := 0; i < 8; i++ {
		sh, err := sheet.Decode(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		_, bag := Build(sh, Options{Jobs: 4})
		got := diag.FormatShortDiagnostics(bag.Items(), true)
		if i == 0 {
			want = got
			continue
		}
		if got != want {
			t.Fatalf("diagnostics differ across builds:\n%s\n--\n%s", want, got)
		}
	}
}
