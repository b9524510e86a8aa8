package sheet

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func decodeSample(t *testing.T) *Sheet {
	t.Helper()
	f, err := os.Open("testdata/sample.xml")
	if err != nil {
		t.Fatalf("open testdata: %v", err)
	}
	defer f.Close()
	sh, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	return sh
}

func TestDecodeSample(t *testing.T) {
	sh := decodeSample(t)

	if got := len(sh.Tokens); got != 5 {
		t.Fatalf("len(Tokens) = %d, want 5", got)
	}
	if !sh.IsPrefix(0xBB) {
		t.Error("IsPrefix(0xBB) = false, want true")
	}
	if sh.IsPrefix(0xBA) {
		t.Error("IsPrefix(0xBA) = true, want false")
	}

	tok, ok := sh.Lookup([]byte{0xBA})
	if !ok {
		t.Fatal("Lookup($BA) failed")
	}
	if len(tok.Versions) != 2 {
		t.Fatalf("$BA has %d versions, want 2", len(tok.Versions))
	}
	first := tok.Versions[0]
	if first.Since.Model != "TI-82" || first.Since.Version.String() != "1.0" {
		t.Errorf("$BA since = %s, want TI-82 1.0", first.Since)
	}
	if first.Until == nil || first.Until.Model != "TI-83" || first.Until.Version.String() != "0.0103" {
		t.Errorf("$BA until = %v, want TI-83 0.0103", first.Until)
	}
	tr, ok := first.Translation("en")
	if !ok {
		t.Fatal("$BA first version has no en translation")
	}
	if tr.Display != "u(\U0001d45b-2)" {
		t.Errorf("display = %q", tr.Display)
	}
	if len(tr.Accessible) != 1 || tr.Accessible[0] != "u(n-2)" {
		t.Errorf("accessible = %v, want [u(n-2)]", tr.Accessible)
	}

	two, ok := sh.Lookup([]byte{0xBB, 0x31})
	if !ok {
		t.Fatal("Lookup($BB$31) failed")
	}
	if two.String() != "$BB$31" {
		t.Errorf("String() = %q, want $BB$31", two.String())
	}
	if two.Subject() != "token 0xBB31" {
		t.Errorf("Subject() = %q, want token 0xBB31", two.Subject())
	}
}

func TestDecodeTranslationFallback(t *testing.T) {
	sh := decodeSample(t)
	tok, _ := sh.Lookup([]byte{0x01})
	ver := tok.Versions[0]
	if ver.HasLang("fr") {
		t.Error("HasLang(fr) = true, want false")
	}
	tr, ok := ver.Translation("fr")
	if !ok || tr.Display == "" {
		t.Fatal("Translation(fr) did not fall back to en")
	}
}

func TestDecodeRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "wrong root",
			doc:  `<sheet></sheet>`,
			want: "not <tokens>",
		},
		{
			name: "bad byte attribute",
			doc:  `<tokens><token value="$G1"><version/></token></tokens>`,
			want: "does not match $HH",
		},
		{
			name: "missing since",
			doc: `<tokens><token value="$01"><version>
				<lang code="en" ti-ascii="01"><display>x</display><accessible>x</accessible></lang>
			</version></token></tokens>`,
			want: "no <since>",
		},
		{
			name: "latest inside sheet",
			doc: `<tokens><token value="$01"><version>
				<since><model>latest</model><os-version>1.0</os-version></since>
				<lang code="en" ti-ascii="01"><display>x</display><accessible>x</accessible></lang>
			</version></token></tokens>`,
			want: "pseudo-model",
		},
		{
			name: "bad lang code",
			doc: `<tokens><token value="$01"><version>
				<since><model>TI-82</model><os-version>1.0</os-version></since>
				<lang code="EN" ti-ascii="01"><display>x</display><accessible>x</accessible></lang>
			</version></token></tokens>`,
			want: "two-letter lowercase",
		},
		{
			name: "bad ti-ascii",
			doc: `<tokens><token value="$01"><version>
				<since><model>TI-82</model><os-version>1.0</os-version></since>
				<lang code="en" ti-ascii="0Z"><display>x</display><accessible>x</accessible></lang>
			</version></token></tokens>`,
			want: "not hex",
		},
		{
			name: "missing accessible",
			doc: `<tokens><token value="$01"><version>
				<since><model>TI-82</model><os-version>1.0</os-version></since>
				<lang code="en" ti-ascii="01"><display>x</display></lang>
			</version></token></tokens>`,
			want: "no <accessible>",
		},
		{
			name: "duplicate token byte",
			doc: `<tokens>
				<token value="$01"><version>
					<since><model>TI-82</model><os-version>1.0</os-version></since>
					<lang code="en" ti-ascii="01"><display>x</display><accessible>x</accessible></lang>
				</version></token>
				<token value="$01"><version>
					<since><model>TI-82</model><os-version>1.0</os-version></since>
					<lang code="en" ti-ascii="01"><display>y</display><accessible>y</accessible></lang>
				</version></token>
			</tokens>`,
			want: "duplicate token byte",
		},
		{
			name: "stray child of tokens",
			doc:  `<tokens><three-byte value="$01"/></tokens>`,
			want: "not a valid child",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("Decode() succeeded, want error")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DecodeError", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestDecodeKeepsUnknownModels(t *testing.T) {
	// Unknown hardware names are a timeline-builder concern; decoding must
	// keep the record so the defect can be collected per token.
	doc := `<tokens><token value="$01"><version>
		<since><model>TI-99</model><os-version>1.0</os-version></since>
		<lang code="en" ti-ascii="01"><display>x</display><accessible>x</accessible></lang>
	</version></token></tokens>`
	sh, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	tok, ok := sh.Lookup([]byte{0x01})
	if !ok || tok.Versions[0].Since.Model != "TI-99" {
		t.Fatal("unknown model was not preserved")
	}
}
